package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gatherly/eventchat/internal/core"
	"github.com/gatherly/eventchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Relay orchestrates the session lifecycle: it runs the join/send/leave
// protocol and drives the room registry, the message store and the
// membership authorizer. Collaborator calls are bounded by CallTimeout;
// a timeout is a failure, never retried here.
type Relay struct {
	Rooms       *core.RoomRegistry
	Auth        MembershipAuthorizer
	Store       MessageStore
	CallTimeout time.Duration
}

func NewRelay(rooms *core.RoomRegistry, auth MembershipAuthorizer, store MessageStore, callTimeout time.Duration) *Relay {
	return &Relay{Rooms: rooms, Auth: auth, Store: store, CallTimeout: callTimeout}
}

// Join binds the session to the event's room after re-checking membership.
// The join notice goes out to the whole room, the joiner included, and
// only after the session is subscribed. A redundant join of a room the
// session is already in re-runs authorization and re-broadcasts the
// notice; the registry itself is untouched.
func (r *Relay) Join(ctx context.Context, s *Session, eventID domain.EventID) *Error {
	allowed, aerr := r.authorize(ctx, s.Identity().ID, eventID)
	if aerr != nil {
		return aerr
	}
	if !allowed {
		log.Warn().Str("module", "app.relay").Str("user", string(s.Identity().ID)).Str("event", string(eventID)).Msg("join denied")
		return newError(KindAuthorizationDenied, "access denied")
	}

	r.Rooms.Join(eventID, s)
	s.trackJoin(eventID)
	log.Info().Str("module", "app.relay").Str("user", string(s.Identity().ID)).Str("event", string(eventID)).Msg("joined event chat")

	notice := fmt.Sprintf("%s joined the chat", s.Identity().DisplayName)
	r.fanOut(eventID, frameNotice(EventUserJoined, notice, time.Now()))
	return nil
}

// Send validates, re-authorizes, persists and only then broadcasts.
// A persistence failure aborts the broadcast; the message is neither
// duplicated nor dropped without notice to the sender.
func (r *Relay) Send(ctx context.Context, s *Session, eventID domain.EventID, body string) *Error {
	if strings.TrimSpace(body) == "" {
		return newError(KindValidationFailed, "message body is empty")
	}

	allowed, aerr := r.authorize(ctx, s.Identity().ID, eventID)
	if aerr != nil {
		return aerr
	}
	if !allowed {
		log.Warn().Str("module", "app.relay").Str("user", string(s.Identity().ID)).Str("event", string(eventID)).Msg("send denied")
		return newError(KindAuthorizationDenied, "access denied")
	}

	cctx, cancel := context.WithTimeout(ctx, r.CallTimeout)
	defer cancel()
	stored, err := r.Store.Append(cctx, eventID, s.Identity().ID, body)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("event", string(eventID)).Msg("message persist failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return newError(KindTimeout, "message store timed out")
		}
		return newError(KindPersistenceFailed, "failed to send message")
	}

	r.fanOut(eventID, frameNewMessage(domain.NewMessage{
		Message:   body,
		UserID:    s.Identity().ID,
		UserName:  s.Identity().DisplayName,
		Timestamp: stored.CreatedAt,
		MessageID: stored.MessageID,
	}))
	return nil
}

// Disconnect is the single cancellation-safe teardown path. It runs at
// most once per session: every joined room loses the member, remaining
// members get one leave notice each, emptied rooms vanish.
func (r *Relay) Disconnect(s *Session) {
	s.closeOnce.Do(func() {
		notice := fmt.Sprintf("%s left the chat", s.Identity().DisplayName)
		for _, eventID := range s.joinedSnapshot() {
			r.Rooms.Leave(eventID, s.ID())
			r.fanOut(eventID, frameNotice(EventUserLeft, notice, time.Now()))
		}
		log.Info().Str("module", "app.relay").Str("user", string(s.Identity().ID)).Msg("session disconnected")
	})
}

func (r *Relay) authorize(ctx context.Context, userID domain.UserID, eventID domain.EventID) (bool, *Error) {
	cctx, cancel := context.WithTimeout(ctx, r.CallTimeout)
	defer cancel()
	allowed, err := r.Auth.Allowed(cctx, userID, eventID)
	if err != nil {
		log.Error().Err(err).Str("module", "app.relay").Str("user", string(userID)).Str("event", string(eventID)).Msg("membership check failed")
		if errors.Is(err, context.DeadlineExceeded) {
			return false, newError(KindTimeout, "membership check timed out")
		}
		return false, newError(KindAuthorizationDenied, "failed to verify access")
	}
	return allowed, nil
}

// fanOut broadcasts a frame and closes the transport of any member whose
// delivery channel is saturated; closing the transport routes the member
// through the normal disconnect cleanup.
func (r *Relay) fanOut(eventID domain.EventID, frame core.Frame) {
	if frame == nil {
		return
	}
	res := r.Rooms.Broadcast(eventID, frame)
	for _, slow := range res.Dropped {
		log.Warn().Str("module", "app.relay").Str("sid", string(slow.ID())).Str("event", string(eventID)).Msg("dropping slow consumer")
		slow.Conn().Close()
	}
}
