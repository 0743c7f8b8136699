package chatws

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/gatherly/eventchat/internal/app"
	"github.com/gatherly/eventchat/internal/domain"
)

// Inbound request types.
const (
	reqJoin    = "join-event-chat"
	reqMessage = "event-message"
	reqPing    = "ping"
)

func (ctl *Controller) dispatch(ctx context.Context, sess *app.Session, c *wsConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "chatws").Msg("bad envelope")
		ctl.sendError(c, &app.Error{Kind: app.KindValidationFailed, Message: "bad payload"})
		return
	}

	switch env.Type {
	case reqJoin:
		ctl.handleJoin(ctx, sess, c, data)
	case reqMessage:
		ctl.handleMessage(ctx, sess, c, data)
	case reqPing:
		_ = c.TrySend(app.FramePong())
	default:
		log.Warn().Str("module", "chatws").Str("type", env.Type).Msg("unknown request")
	}
}

func (ctl *Controller) handleJoin(ctx context.Context, sess *app.Session, c *wsConn, data []byte) {
	var p struct {
		Type    string `json:"type"`
		EventID string `json:"eventId"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.EventID == "" {
		ctl.sendError(c, &app.Error{Kind: app.KindValidationFailed, Message: "eventId is required"})
		return
	}

	if err := ctl.Relay.Join(ctx, sess, domain.EventID(p.EventID)); err != nil {
		ctl.sendError(c, err)
	}
}

func (ctl *Controller) handleMessage(ctx context.Context, sess *app.Session, c *wsConn, data []byte) {
	var p struct {
		Type    string `json:"type"`
		EventID string `json:"eventId"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &p); err != nil || p.EventID == "" {
		ctl.sendError(c, &app.Error{Kind: app.KindValidationFailed, Message: "eventId is required"})
		return
	}

	if ctl.Limiter != nil && !ctl.Limiter.Allow(sess.Identity().ID) {
		ctl.sendError(c, &app.Error{Kind: app.KindValidationFailed, Message: "too many messages, slow down"})
		return
	}

	if err := ctl.Relay.Send(ctx, sess, domain.EventID(p.EventID), p.Message); err != nil {
		ctl.sendError(c, err)
	}
}

// sendError delivers a scoped error event to the originating session only.
func (ctl *Controller) sendError(c *wsConn, e *app.Error) {
	if err := c.TrySend(app.FrameError(e)); err != nil {
		log.Debug().Err(err).Str("module", "chatws").Msg("error event dropped")
	}
}
