// Package chatws adapts the relay to websocket transport: one read/write
// pump pair per connection, a typed JSON envelope in each direction.
package chatws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/gatherly/eventchat/internal/app"
	"github.com/gatherly/eventchat/internal/core"
	"github.com/gatherly/eventchat/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// IdentityKey is where the auth middleware leaves the resolved identity.
const IdentityKey = "identity"

type Controller struct {
	Relay      *app.Relay
	Limiter    *MessageRateLimiter
	ReadLimit  int64
	PingPeriod time.Duration
	SendBuffer int
}

func NewController(relay *app.Relay, limiter *MessageRateLimiter, readLimit int64, pingPeriod time.Duration, sendBuffer int) *Controller {
	return &Controller{
		Relay:      relay,
		Limiter:    limiter,
		ReadLimit:  readLimit,
		PingPeriod: pingPeriod,
		SendBuffer: sendBuffer,
	}
}

type wsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleChat upgrades an authenticated request and runs the session until
// the connection terminates. Cleanup completes before this returns.
func (ctl *Controller) HandleChat(ctx context.Context, c *gin.Context) {
	val, exists := c.Get(IdentityKey)
	identity, ok := val.(domain.Identity)
	if !exists || !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "chatws").Msg("ws upgrade")
		return
	}

	sid := core.SessionID(uuid.NewString())
	conn := &wsConn{conn: ws, send: make(chan core.Frame, ctl.SendBuffer)}
	sess := app.NewSession(sid, identity, conn)
	log.Info().Str("module", "chatws").Str("sid", string(sid)).Str("user", string(identity.ID)).Msg("connection established")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go ctl.writePump(ctx, conn)
	ctl.readPump(ctx, sess, conn)
}
