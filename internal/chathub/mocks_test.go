package chathub_test

// MockClient is a test double for the chathub.Client interface. Recv
// doubles as the send channel so tests can assert on delivered frames;
// give it zero capacity to simulate a dead or backed-up session.
type MockClient struct {
	sessionID string
	room      string
	Recv      chan []byte
	Closed    bool
}

func newMockClient(sessionID, room string, buffer int) *MockClient {
	return &MockClient{
		sessionID: sessionID,
		room:      room,
		Recv:      make(chan []byte, buffer),
	}
}

func (c *MockClient) GetSessionID() string { return c.sessionID }

func (c *MockClient) GetRoom() string { return c.room }

func (c *MockClient) GetSendChannel() chan<- []byte { return c.Recv }

func (c *MockClient) Run() {
	// Not needed for testing
}

func (c *MockClient) Close() {
	c.Closed = true
}

// DrainFrames empties the receive channel (for test cleanup and
// assertions on delivery counts).
func (c *MockClient) DrainFrames() [][]byte {
	var frames [][]byte
	for {
		select {
		case f := <-c.Recv:
			frames = append(frames, f)
		default:
			return frames
		}
	}
}
