package core

import (
	"sync"

	"github.com/gatherly/eventchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomRegistry owns the eventID -> room mapping. Rooms come into being
// on first join and vanish when their member set empties; nothing else
// creates or destroys them. All membership mutations go through the
// registry so that joins, leaves and room garbage collection serialize
// against each other.
type RoomRegistry struct {
	mu    sync.RWMutex
	rooms map[domain.EventID]*room
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[domain.EventID]*room)}
}

// Join adds the session to the event's room, creating the room if this
// is its first member.
func (reg *RoomRegistry) Join(eventID domain.EventID, ms MemberSession) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[eventID]
	if !ok {
		r = newRoom(eventID)
		reg.rooms[eventID] = r
		log.Info().Str("module", "core.registry").Str("event", string(eventID)).Msg("room opened")
	}
	r.add(ms)
}

// Leave removes the session from the event's room and drops the room
// once it is empty. Leaving a room that does not exist is a no-op.
func (reg *RoomRegistry) Leave(eventID domain.EventID, sid SessionID) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[eventID]
	if !ok {
		return
	}
	if r.remove(sid) == 0 {
		delete(reg.rooms, eventID)
		log.Info().Str("module", "core.registry").Str("event", string(eventID)).Msg("room closed")
	}
}

// Broadcast delivers a frame to every member of the event's room. A
// broadcast into a room that no longer exists delivers to nobody.
func (reg *RoomRegistry) Broadcast(eventID domain.EventID, data Frame) PublishResult {
	reg.mu.RLock()
	r, ok := reg.rooms[eventID]
	reg.mu.RUnlock()
	if !ok {
		return PublishResult{}
	}
	return r.broadcast(data)
}

// Contains reports whether the user is currently a member of the event's room.
func (reg *RoomRegistry) Contains(eventID domain.EventID, userID domain.UserID) bool {
	reg.mu.RLock()
	r, ok := reg.rooms[eventID]
	reg.mu.RUnlock()
	if !ok {
		return false
	}
	return r.contains(userID)
}

// MemberCount reports the current member count of the event's room;
// zero for a room that does not exist.
func (reg *RoomRegistry) MemberCount(eventID domain.EventID) int {
	reg.mu.RLock()
	r, ok := reg.rooms[eventID]
	reg.mu.RUnlock()
	if !ok {
		return 0
	}
	return r.memberCount()
}

// Members returns a read-only snapshot of the event's room.
func (reg *RoomRegistry) Members(eventID domain.EventID) []MemberDTO {
	reg.mu.RLock()
	r, ok := reg.rooms[eventID]
	reg.mu.RUnlock()
	if !ok {
		return nil
	}
	return r.membersSnapshot()
}

// List snapshots every live room for introspection endpoints.
func (reg *RoomRegistry) List() []RoomInfo {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]RoomInfo, 0, len(reg.rooms))
	for id, r := range reg.rooms {
		out = append(out, RoomInfo{EventID: id, MemberCount: r.memberCount()})
	}
	return out
}
