package app

import (
	"sync"

	"github.com/gatherly/eventchat/internal/core"
	"github.com/gatherly/eventchat/internal/domain"
)

// Session is the live server-side representation of one connected client.
// It carries the identity resolved at connect time and the set of rooms
// the connection is currently bound to.
type Session struct {
	sid      core.SessionID
	identity domain.Identity
	conn     core.Conn

	mu     sync.Mutex
	joined map[domain.EventID]struct{}

	closeOnce sync.Once
}

func NewSession(sid core.SessionID, identity domain.Identity, conn core.Conn) *Session {
	return &Session{
		sid:      sid,
		identity: identity,
		conn:     conn,
		joined:   make(map[domain.EventID]struct{}),
	}
}

func (s *Session) ID() core.SessionID        { return s.sid }
func (s *Session) Identity() domain.Identity { return s.identity }
func (s *Session) Conn() core.Conn           { return s.conn }

func (s *Session) trackJoin(eventID domain.EventID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joined[eventID] = struct{}{}
}

// joinedSnapshot returns the rooms this session is bound to at call time.
func (s *Session) joinedSnapshot() []domain.EventID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.EventID, 0, len(s.joined))
	for id := range s.joined {
		out = append(out, id)
	}
	return out
}
