package core

import "github.com/gatherly/eventchat/internal/domain"

// memberSession implements MemberSession by pairing identity + transport.
type memberSession struct {
	sid      SessionID
	identity domain.Identity
	conn     Conn
}

func NewMemberSession(sid SessionID, identity domain.Identity, conn Conn) MemberSession {
	return &memberSession{sid: sid, identity: identity, conn: conn}
}

func (m *memberSession) ID() SessionID             { return m.sid }
func (m *memberSession) Identity() domain.Identity { return m.identity }
func (m *memberSession) Conn() Conn                { return m.conn }
