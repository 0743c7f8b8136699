package core

import "github.com/gatherly/eventchat/internal/domain"

// Frame is an encoded outbound event ready for the transport.
type Frame []byte

type SessionID string

// Conn abstracts the session's delivery channel.
// Owned by the adapter; the adapter must Close() it.
type Conn interface {
	TrySend(Frame) error
	Close()
}

// MemberSession binds a verified identity and its transport endpoint.
// This is what a room stores and fans out to.
type MemberSession interface {
	ID() SessionID
	Identity() domain.Identity
	Conn() Conn
}

// PublishResult reports delivery stats/backpressure to the relay.
type PublishResult struct {
	SentTo  int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ID          domain.UserID `json:"id"`
	DisplayName string        `json:"displayName"`
}

type RoomInfo struct {
	EventID     domain.EventID `json:"eventId"`
	MemberCount int            `json:"memberCount"`
}
