package chathub

// Client is the interface for one live connection bound to a room. It
// abstracts the transport so the registry can fan out to WebSocket
// sessions and test doubles uniformly.
type Client interface {
	// GetSessionID returns the unique identifier of this connection.
	// Identity (the sender string) is per-event, not per-connection.
	GetSessionID() string
	// GetRoom returns the room this connection is bound to. A session is
	// bound to exactly one room for its whole lifetime.
	GetRoom() string

	// GetSendChannel returns the channel the registry pushes marshaled
	// frames into. Delivery is fire-and-forget: a full channel means the
	// session is dead or hopelessly behind.
	GetSendChannel() chan<- []byte

	// Run starts the client's read and write pumps.
	Run()
	// Close shuts down the outbound side of the client. Safe to call
	// more than once.
	Close()
}
