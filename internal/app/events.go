package app

import (
	"encoding/json"
	"time"

	"github.com/gatherly/eventchat/internal/core"
	"github.com/gatherly/eventchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// Wire event types delivered to subscribed sessions.
const (
	EventNewMessage = "new-message"
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
	EventError      = "error"
	EventPong       = "pong"
)

func frameNewMessage(m domain.NewMessage) core.Frame {
	return encode(struct {
		Type string `json:"type"`
		domain.NewMessage
	}{EventNewMessage, m})
}

func frameNotice(eventType, message string, at time.Time) core.Frame {
	return encode(struct {
		Type string `json:"type"`
		domain.SystemNotice
	}{eventType, domain.SystemNotice{Message: message, Timestamp: at, System: true}})
}

// FrameError encodes a scoped error event for a single session.
func FrameError(e *Error) core.Frame {
	return encode(struct {
		Type string `json:"type"`
		*Error
	}{EventError, e})
}

// FramePong answers a client ping.
func FramePong() core.Frame {
	return encode(struct {
		Type string `json:"type"`
	}{EventPong})
}

func encode(v any) core.Frame {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.events").Msg("event marshal")
		return nil
	}
	return b
}
