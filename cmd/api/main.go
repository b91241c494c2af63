package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hoshinokaze/kokoro-chat/backend/internal/config"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/handler"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/model/persona"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/service/ai"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/service/chat"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/service/pacing"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/state"
	"github.com/hoshinokaze/kokoro-chat/backend/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file, using system environment")
	}

	cfg := config.Load()
	initLogger(cfg.LogPretty)

	kv := openStore(cfg.StorePath)
	st := state.New(kv)

	personaStore := persona.NewMemoryStore(persona.Seed())
	aiSvc := ai.NewService(st, ai.NewProxyClient(cfg.ProxyURL, cfg.LLMTimeout))
	chatSvc := chat.NewService(st, personaStore, aiSvc, pacing.NewController())

	router := handler.NewRouter(personaStore, chatSvc, st, cfg.AllowedOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info().Str("addr", srv.Addr).Str("proxy", cfg.ProxyURL).Msg("kokoro chat backend listening")
	if err := runServer(ctx, srv); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}

	if closer, ok := kv.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}
}

func initLogger(pretty bool) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

// openStore opens the SQLite store, degrading to the in-memory store when the
// database cannot be opened. Sessions then survive only for the process
// lifetime.
func openStore(path string) store.Store {
	kv, err := store.NewSQLite(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to open sqlite store, falling back to in-memory store")
		return store.NewMemoryStore()
	}
	log.Info().Str("path", path).Msg("sqlite store opened")
	return kv
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
