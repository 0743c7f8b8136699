package core

import (
	"sync"

	"github.com/gatherly/eventchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// room is a threadsafe in-memory member set for one event chat.
// The membership set and the broadcast group are the same structure,
// mutated inside the same critical section. The room never closes
// adapter-owned resources.
type room struct {
	eventID domain.EventID
	mu      sync.RWMutex
	bySID   map[SessionID]MemberSession
	byUser  map[domain.UserID]SessionID

	// fanMu serializes fan-outs: every member must observe concurrent
	// broadcasts into the same room in the same relative order.
	fanMu sync.Mutex
}

func newRoom(eventID domain.EventID) *room {
	return &room{
		eventID: eventID,
		bySID:   make(map[SessionID]MemberSession),
		byUser:  make(map[domain.UserID]SessionID),
	}
}

func (r *room) memberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

// add is a no-op at the set level for a session that is already a member.
func (r *room) add(ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[ms.ID()]; ok {
		return
	}
	r.bySID[ms.ID()] = ms
	r.byUser[ms.Identity().ID] = ms.ID()
	log.Debug().Str("module", "core.room").Str("event", string(r.eventID)).Str("sid", string(ms.ID())).Msg("member added")
}

// remove reports how many members are left. Removing an absent session
// is a defensive no-op.
func (r *room) remove(sid SessionID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ms, ok := r.bySID[sid]; ok {
		delete(r.byUser, ms.Identity().ID)
		delete(r.bySID, sid)
		log.Debug().Str("module", "core.room").Str("event", string(r.eventID)).Str("sid", string(sid)).Msg("member removed")
	}
	return len(r.bySID)
}

// broadcast fans a frame out to every current member, the originator
// included. Fan-outs are serialized per room, so any two members see
// the same relative order of broadcasts. Members whose delivery channel
// is saturated are reported back for the relay to deal with.
func (r *room) broadcast(data Frame) PublishResult {
	r.fanMu.Lock()
	defer r.fanMu.Unlock()
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for _, m := range r.bySID {
		if err := m.Conn().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	return res
}

func (r *room) contains(userID domain.UserID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byUser[userID]
	return ok
}

func (r *room) membersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.bySID))
	for _, ms := range r.bySID {
		id := ms.Identity()
		out = append(out, MemberDTO{ID: id.ID, DisplayName: id.DisplayName})
	}
	return out
}
