package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/pallettrack-backend/internal/config"
	"github.com/heartmarshall/pallettrack-backend/internal/domain"
	"github.com/heartmarshall/pallettrack-backend/internal/transport/middleware"
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (domain.User, error)
}

// RouterDeps bundles everything the HTTP router needs.
type RouterDeps struct {
	Log       *slog.Logger
	Auth      *AuthHandler
	Tracker   *TrackerHandler
	Health    *HealthHandler
	Validator tokenValidator
	CORS      config.CORSConfig
}

// NewRouter builds the HTTP handler tree with the middleware stack applied.
// Tracker routes require an authenticated user; auth and health routes are open.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /live", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.HandleFunc("GET /health", deps.Health.Health)

	mux.HandleFunc("POST /api/auth/login", deps.Auth.Login)
	mux.HandleFunc("POST /api/auth/logout", deps.Auth.Logout)
	mux.HandleFunc("GET /api/auth/me", deps.Auth.Me)
	mux.HandleFunc("GET /api/auth/remembered", deps.Auth.Remembered)

	requireUser := middleware.RequireUser()
	protected := func(h http.HandlerFunc) http.Handler {
		return requireUser(h)
	}

	mux.Handle("GET /api/tracker/status", protected(deps.Tracker.Status))
	mux.Handle("POST /api/tracker/workday/start", protected(deps.Tracker.StartWorkDay))
	mux.Handle("POST /api/tracker/workday/end-request", protected(deps.Tracker.RequestEndWorkDay))
	mux.Handle("POST /api/tracker/checks/start-request", protected(deps.Tracker.RequestStartCheck))
	mux.Handle("POST /api/tracker/checks/end-request", protected(deps.Tracker.RequestEndCheck))
	mux.Handle("POST /api/tracker/checks/no-errors", protected(deps.Tracker.CompleteNoErrors))
	mux.Handle("GET /api/tracker/checks/{index}/stats", protected(deps.Tracker.CheckStats))
	mux.Handle("POST /api/tracker/confirm", protected(deps.Tracker.Confirm))
	mux.Handle("POST /api/tracker/cancel-confirmation", protected(deps.Tracker.CancelConfirmation))
	mux.Handle("POST /api/tracker/errors/begin", protected(deps.Tracker.BeginErrorCollection))
	mux.Handle("POST /api/tracker/errors", protected(deps.Tracker.AddPendingError))
	mux.Handle("GET /api/tracker/errors", protected(deps.Tracker.PendingErrors))
	mux.Handle("DELETE /api/tracker/errors/{index}", protected(deps.Tracker.RemovePendingError))
	mux.Handle("POST /api/tracker/errors/finish", protected(deps.Tracker.FinishErrorCollection))
	mux.Handle("POST /api/tracker/errors/cancel-request", protected(deps.Tracker.RequestCancelCollection))
	mux.Handle("POST /api/tracker/save", protected(deps.Tracker.Save))
	mux.Handle("GET /api/tracker/history", protected(deps.Tracker.History))
	mux.Handle("GET /api/tracker/history/{date}", protected(deps.Tracker.DayDetails))

	chain := middleware.Chain(
		middleware.RequestID,
		middleware.Logger(deps.Log),
		middleware.Recovery(deps.Log),
		middleware.CORS(deps.CORS),
		middleware.Auth(deps.Validator),
	)

	return chain(mux)
}
