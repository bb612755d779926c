package gateway

import (
	"sync"

	"go.uber.org/zap"
)

// RoomRegistry tracks which clients belong to which named room. Rooms
// are transient, an empty room and an absent room are the same thing.
type RoomRegistry struct {
	log *zap.SugaredLogger

	mu         sync.RWMutex
	rooms      map[string]map[*Client]struct{}
	membership map[*Client]map[string]struct{}
}

func NewRoomRegistry(log *zap.SugaredLogger) *RoomRegistry {
	return &RoomRegistry{
		log:        log,
		rooms:      make(map[string]map[*Client]struct{}),
		membership: make(map[*Client]map[string]struct{}),
	}
}

// Join is idempotent.
func (r *RoomRegistry) Join(room string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		r.rooms[room] = members
	}
	members[c] = struct{}{}

	joined, ok := r.membership[c]
	if !ok {
		joined = make(map[string]struct{})
		r.membership[c] = joined
	}
	joined[room] = struct{}{}
}

func (r *RoomRegistry) Leave(room string, c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(room, c)
}

func (r *RoomRegistry) leaveLocked(room string, c *Client) {
	if members, ok := r.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
	if joined, ok := r.membership[c]; ok {
		delete(joined, room)
		if len(joined) == 0 {
			delete(r.membership, c)
		}
	}
}

// LeaveAll drops the client from every room it belongs to and returns
// the rooms it was in. Called on disconnect, nothing else expires
// membership.
func (r *RoomRegistry) LeaveAll(c *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	joined := r.membership[c]
	rooms := make([]string, 0, len(joined))
	for room := range joined {
		rooms = append(rooms, room)
	}
	for _, room := range rooms {
		r.leaveLocked(room, c)
	}
	return rooms
}

func (r *RoomRegistry) Members(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[room])
}

func (r *RoomRegistry) IsMember(room string, c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.rooms[room][c]
	return ok
}

// Broadcast delivers the event to every current member of the room
// except exclude, at most once per member. An empty room is a no-op.
// Delivery order across recipients is not defined.
func (r *RoomRegistry) Broadcast(room string, eventName string, payload any, exclude *Client) {
	env, err := marshalEnvelope(eventName, payload)
	if err != nil {
		r.log.Errorf("broadcast to room %s: %v", room, err)
		return
	}

	r.mu.RLock()
	recipients := make([]*Client, 0, len(r.rooms[room]))
	for member := range r.rooms[room] {
		if member == exclude {
			continue
		}
		recipients = append(recipients, member)
	}
	r.mu.RUnlock()

	for _, member := range recipients {
		if !member.enqueue(env) {
			r.log.Warnf("client %s send buffer full, dropped %s", member.ID, eventName)
		}
	}
}
