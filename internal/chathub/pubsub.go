package chathub

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// bridgeChannel is the single redis pub/sub channel all instances
// share. Frames carry the room name, so one channel is enough.
const bridgeChannel = "chat:events"

// Bridge replays broadcasts across processes through redis pub/sub.
// It is the extension point for running more than one broker process:
// the in-memory registry stays authoritative for local sessions, and
// the bridge forwards every broadcast to the other instances. Frames
// are tagged with the publishing instance's id so an instance never
// redelivers its own broadcasts.
type Bridge struct {
	rdb        *redis.Client
	instanceID string
}

func NewBridge(rdb *redis.Client) *Bridge {
	return &Bridge{
		rdb:        rdb,
		instanceID: uuid.New().String(),
	}
}

type bridgeFrame struct {
	Origin  string          `json:"origin"`
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// Publish forwards one marshaled broadcast frame to the other
// instances.
func (b *Bridge) Publish(room string, payload []byte) error {
	frame, err := json.Marshal(bridgeFrame{
		Origin:  b.instanceID,
		Room:    room,
		Payload: payload,
	})
	if err != nil {
		return err
	}
	return b.rdb.Publish(context.Background(), bridgeChannel, frame).Err()
}

// Listen subscribes to the shared channel and delivers frames from
// other instances to the local members of the target room. Runs until
// the subscription is closed; start it in its own goroutine.
func (b *Bridge) Listen(registry *Registry) {
	ctx := context.Background()
	pubsub := b.rdb.Subscribe(ctx, bridgeChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var frame bridgeFrame
		if err := json.Unmarshal([]byte(msg.Payload), &frame); err != nil {
			log.Printf("ERROR: Failed to decode bridge frame: %v", err)
			continue
		}
		if frame.Origin == b.instanceID {
			continue
		}
		registry.deliver(frame.Room, frame.Payload)
	}
}
