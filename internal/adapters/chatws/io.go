package chatws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gatherly/eventchat/internal/app"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(ctl.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "chatws").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "chatws").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "chatws").Msg("writePump write error")
				return
			}
		}
	}
}

// readPump drives the session's inbound requests one at a time, so a
// send is persisted and broadcast fully before the next one is read.
func (ctl *Controller) readPump(ctx context.Context, sess *app.Session, c *wsConn) {
	defer func() {
		ctl.Relay.Disconnect(sess)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(sess.Identity().ID)
		}
		c.Close()
		log.Info().Str("module", "chatws").Str("sid", string(sess.ID())).Msg("connection closed")
	}()

	pongWait := ctl.PingPeriod * 10 / 9
	c.conn.SetReadLimit(ctl.ReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Debug().Err(err).Str("module", "chatws").Str("sid", string(sess.ID())).Msg("readPump read error")
				}
				return
			}
			ctl.dispatch(ctx, sess, c, data)
		}
	}
}
