package app

import (
	"context"
	"time"

	"github.com/gatherly/eventchat/internal/domain"
)

// StoredMessage is what the message store assigns on a successful write.
type StoredMessage struct {
	MessageID string
	CreatedAt time.Time
}

// TokenVerifier resolves an opaque connection credential into an identity.
// The relay trusts the result for the lifetime of the connection.
type TokenVerifier interface {
	Verify(credential string) (domain.Identity, error)
}

// MembershipAuthorizer answers whether a user may take part in an event's
// chat. Consulted at join time and again on every send; access can be
// revoked mid-session.
type MembershipAuthorizer interface {
	Allowed(ctx context.Context, userID domain.UserID, eventID domain.EventID) (bool, error)
}

// MessageStore durably appends chat messages. The relay writes and never
// reads back; history replay belongs to another surface.
type MessageStore interface {
	Append(ctx context.Context, eventID domain.EventID, userID domain.UserID, body string) (StoredMessage, error)
}
