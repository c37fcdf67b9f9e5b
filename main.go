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

	"photo-contest-backend/authentication"
	"photo-contest-backend/config"
	"photo-contest-backend/contest"
	"photo-contest-backend/entry"
	"photo-contest-backend/imagehost"
	"photo-contest-backend/live"
	"photo-contest-backend/routes"
	"photo-contest-backend/users"
	"photo-contest-backend/version"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server exited")
}

// run owns every resource of the process and releases them on return.
func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer closeStore(db)

	uploader, err := imagehost.New(ctx, cfg.ImageHost)
	if err != nil {
		return fmt.Errorf("failed to create image host: %w", err)
	}

	hub := live.NewHub()
	go hub.Run(ctx)

	authHandler := authentication.NewHandler(db.Users, []byte(cfg.Auth.JWTSecret))
	if !authHandler.Enabled() {
		log.Warn().Msg("JWT_SECRET not set, admin routes are open")
	}

	router := routes.SetupRouter(routes.Handlers{
		Contest: contest.NewHandler(db.Contests, uploader, hub),
		Entry:   entry.NewHandler(db.Entries, uploader, hub),
		Users:   users.NewHandler(db.Users, authHandler.Enabled()),
		Auth:    authHandler,
		Version: version.NewHandler(cfg),
		Live:    hub,
		Health:  db,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("env", cfg.AppEnv).
		Msg("Starting server")
	return serve(srv, quit)
}

// serve runs srv until quit fires, then shuts it down gracefully. A listen
// failure is returned instead of ending the process.
func serve(srv *http.Server, quit <-chan os.Signal) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	switch cfg.Log.Level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
