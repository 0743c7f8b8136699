package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gatherly/eventchat/internal/adapters/chatws"
	"github.com/gatherly/eventchat/internal/app"
	"github.com/gatherly/eventchat/internal/auth"
	"github.com/gatherly/eventchat/internal/config"
	"github.com/gatherly/eventchat/internal/core"
	"github.com/gatherly/eventchat/internal/domain"
)

// BearerAuth is the connection gate: it resolves the handshake credential
// before the websocket upgrade, so an unauthenticated connection is
// refused outright and never reaches a room operation.
func BearerAuth(verifier app.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if authz := strings.TrimSpace(c.GetHeader("Authorization")); authz != "" {
			if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				token = strings.TrimSpace(authz[len("bearer "):])
			}
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, app.Error{Kind: app.KindAuthenticationFailed, Message: "authentication required"})
			return
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			log.Warn().Err(err).Str("module", "adapters.http").Msg("credential rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, app.Error{Kind: app.KindAuthenticationFailed, Message: "authentication failed"})
			return
		}

		c.Set(chatws.IdentityKey, identity)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, relay *app.Relay, verifier *auth.Verifier, rooms *core.RoomRegistry) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, rooms.List())
	})

	limiter := chatws.NewMessageRateLimiter(cfg.MsgRateLimit, cfg.MsgRateWindow)
	ctl := chatws.NewController(relay, limiter, cfg.ReadLimit, cfg.PingPeriod, cfg.SendBuffer)
	api.GET("/ws/chat", BearerAuth(verifier), func(c *gin.Context) {
		ctl.HandleChat(ctx, c)
	})

	if cfg.Mode == "debug" {
		// Stand-in for the account service's login flow.
		api.POST("/login", func(c *gin.Context) {
			var req struct {
				Name string `json:"name" binding:"required"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			identity, err := domain.NewIdentity(uuid.NewString(), req.Name)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
				return
			}
			token, err := verifier.Issue(identity, 24*time.Hour)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"token": token, "user": identity})
		})
	}

	log.Info().Str("module", "adapters.http").Str("mode", cfg.Mode).Msg("router setup")
	return r
}
