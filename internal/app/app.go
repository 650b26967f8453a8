package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	jwtauth "github.com/heartmarshall/pallettrack-backend/internal/auth"

	"github.com/heartmarshall/pallettrack-backend/internal/adapter/badgerstore"
	"github.com/heartmarshall/pallettrack-backend/internal/adapter/memstore"
	"github.com/heartmarshall/pallettrack-backend/internal/config"
	authsvc "github.com/heartmarshall/pallettrack-backend/internal/service/auth"
	trackersvc "github.com/heartmarshall/pallettrack-backend/internal/service/tracker"
	"github.com/heartmarshall/pallettrack-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, opens the
// durable store, restores the tracking session from its last snapshot, and
// serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	store, err := badgerstore.Open(badgerstore.Options{
		Dir:      cfg.Storage.Dir,
		InMemory: cfg.Storage.InMemory,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("close store", slog.String("error", err.Error()))
		}
	}()

	// Login markers live in memory so every restart begins logged out.
	sessions := memstore.New()

	jwtManager := jwtauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	authService := authsvc.NewService(logger, store, sessions, jwtManager, cfg.Auth)

	trackerService := trackersvc.NewService(logger, store, cfg.Tracker)
	if err := trackerService.Load(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	router := rest.NewRouter(rest.RouterDeps{
		Log:       logger,
		Auth:      rest.NewAuthHandler(authService, logger),
		Tracker:   rest.NewTrackerHandler(trackerService, logger),
		Health:    rest.NewHealthHandler(store, BuildVersion()),
		Validator: authService,
		CORS:      cfg.CORS,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown http server", slog.String("error", err.Error()))
		}

		// Persist the session one last time so a clean restart resumes exactly
		// where the operator left off.
		if err := trackerService.Save(shutdownCtx); err != nil {
			logger.Error("save session snapshot", slog.String("error", err.Error()))
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
