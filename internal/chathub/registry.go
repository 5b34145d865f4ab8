package chathub

import (
	"encoding/json"
	"log"
	"sync"

	"roomchat/backend/internal/models"
)

// Registry is the process-wide map from room name to the set of live
// sessions. It is the single shared mutable resource of the realtime
// core: constructed once in main and passed by reference to every
// handler. Membership is purely in-memory; sessions rejoin after a
// restart.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]map[string]Client

	// bridge, when set, replays broadcasts across processes via redis.
	bridge *Bridge
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]map[string]Client)}
}

// SetBridge attaches the cross-process pub/sub bridge. Call before any
// session joins.
func (r *Registry) SetBridge(b *Bridge) {
	r.bridge = b
}

// Join adds the client to the room's membership set. Joining a room
// the client is already in is a no-op.
func (r *Registry) Join(room string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[string]Client)
		r.rooms[room] = members
	}
	if _, ok := members[c.GetSessionID()]; ok {
		return
	}
	members[c.GetSessionID()] = c
	connectedSessions.Inc()
}

// Leave removes the session from the room. The room entry is pruned
// once its last member leaves; room rows in the database are untouched.
func (r *Registry) Leave(room, sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}
	if _, ok := members[sessionID]; !ok {
		return
	}
	delete(members, sessionID)
	connectedSessions.Dec()
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// Members reports the current number of sessions in the room.
func (r *Registry) Members(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}

// Broadcast marshals the event once and delivers it to every session
// in the room, including the one that triggered it. When the bridge is
// configured the frame is also published for other processes.
func (r *Registry) Broadcast(room string, event models.ServerEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: Failed to encode broadcast for room %q: %v", room, err)
		return
	}

	r.deliver(room, payload)

	if r.bridge != nil {
		if err := r.bridge.Publish(room, payload); err != nil {
			log.Printf("ERROR: Failed to publish broadcast for room %q: %v", room, err)
		}
	}
}

// deliver pushes a marshaled frame to every local member. Delivery to
// one session must never block or fail delivery to the rest: a session
// whose send channel won't accept the frame is dropped from the room
// and closed, and the loop moves on. The sends are non-blocking, so the
// whole loop runs under the lock; that keeps drop-and-close atomic and
// stops a concurrent broadcast from writing to a channel another one
// just closed.
func (r *Registry) deliver(room string, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[room]
	for id, c := range members {
		select {
		case c.GetSendChannel() <- payload:
			broadcastDeliveries.Inc()
		default:
			broadcastDrops.Inc()
			log.Printf("WARNING: Dropping dead session %s in room %q", id, room)
			delete(members, id)
			connectedSessions.Dec()
			c.Close()
		}
	}
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}
