package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/gatherly/eventchat/internal/adapters/http"
	"github.com/gatherly/eventchat/internal/app"
	"github.com/gatherly/eventchat/internal/auth"
	"github.com/gatherly/eventchat/internal/config"
	"github.com/gatherly/eventchat/internal/core"
	storage "github.com/gatherly/eventchat/internal/storage/mongo"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	db, err := storage.Connect(connectCtx, storage.Config{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = db.Client().Disconnect(disconnectCtx)
	}()

	messages := storage.NewMessageStore(db)
	if err := messages.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure message indexes")
	}
	participants := storage.NewParticipantStore(db)

	rooms := core.NewRoomRegistry()
	relay := app.NewRelay(rooms, participants, messages, cfg.CallTimeout)
	verifier := auth.NewVerifier(cfg.Secret, "eventchat")

	r := router.SetupRouter(ctx, cfg, relay, verifier, rooms)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("eventchat server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
