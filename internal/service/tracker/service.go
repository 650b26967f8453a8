// Package tracker owns the shift-tracking session: the current work day, the
// in-flight pallet check, the pending-errors buffer, the date-keyed history
// archive, and the snapshot persisted between runs.
package tracker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/pallettrack-backend/internal/config"
	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// keySessionData is the durable-store key holding the session snapshot.
const keySessionData = "session-data"

// kvStore defines the key-value storage interface needed by the tracker service.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// Service owns the in-memory session state. All operations run under one
// mutex: the tool is single-operator, so serializing them preserves the
// run-to-completion semantics of the workflow.
type Service struct {
	log   *slog.Logger
	store kvStore
	cfg   config.TrackerConfig
	now   func() time.Time

	mu            sync.Mutex
	day           domain.WorkDay
	current       *domain.PalletCheck
	history       domain.History
	pendingErrors []domain.ErrorReport
	phase         domain.CheckPhase
	pending       *confirmation
}

// NewService creates a tracker service with an empty session.
// Call Load to restore the persisted snapshot.
func NewService(logger *slog.Logger, store kvStore, cfg config.TrackerConfig) *Service {
	return &Service{
		log:     logger.With("service", "tracker"),
		store:   store,
		cfg:     cfg,
		now:     time.Now,
		history: make(domain.History),
		phase:   domain.PhaseIdle,
	}
}

// intentKind discriminates what a pending confirmation will do when accepted.
type intentKind string

const (
	intentStartCheck       intentKind = "start_check"
	intentEndWorkDay       intentKind = "end_work_day"
	intentCancelCollection intentKind = "cancel_collection"
)

// confirmation is the single outstanding confirm request. Each carries a
// unique token checked at acceptance time, so an accept arriving after the
// request was replaced or cancelled cannot fire the wrong intent.
type confirmation struct {
	token   uuid.UUID
	kind    intentKind
	message string

	// set only for intentStartCheck
	code     string
	boxCount int
}

// Confirmation describes a pending confirm request to the caller.
type Confirmation struct {
	Token   uuid.UUID
	Action  string
	Message string
}

func (c *confirmation) view() *Confirmation {
	if c == nil {
		return nil
	}
	return &Confirmation{Token: c.token, Action: string(c.kind), Message: c.message}
}

// Status is a point-in-time view of the session.
type Status struct {
	Day                 domain.WorkDay
	Current             *domain.PalletCheck
	Totals              domain.DayTotals
	Phase               domain.CheckPhase
	PendingConfirmation *Confirmation
	PendingErrorCount   int
	DailyQuota          int
}

// Status returns the current session state.
func (s *Service) Status(_ context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

func (s *Service) statusLocked() Status {
	st := Status{
		Day:                 s.day,
		Totals:              domain.ComputeTotals(s.day.Checks),
		Phase:               s.phase,
		PendingConfirmation: s.pending.view(),
		PendingErrorCount:   len(s.pendingErrors),
		DailyQuota:          s.cfg.DailyQuota,
	}
	if s.current != nil {
		check := *s.current
		st.Current = &check
	}
	return st
}

// FinalizeResult is the outcome of completing a pallet check.
type FinalizeResult struct {
	Check          domain.PalletCheck
	Totals         domain.DayTotals
	PalletsChecked int
	// QuotaReached is set on the finalize that brings the completed count to
	// the daily quota. Callers use it to prompt the operator to end the day.
	QuotaReached bool
}

// finalizeLocked commits the current check with the given error list.
// Caller must hold s.mu and have verified s.current != nil.
func (s *Service) finalizeLocked(errors []domain.ErrorReport) FinalizeResult {
	now := s.now()
	check := *s.current
	check.EndedAt = &now
	seconds := domain.DurationSeconds(check.StartedAt, now)
	check.Duration = domain.FormatDuration(seconds)
	check.Errors = append([]domain.ErrorReport(nil), errors...)

	s.day.Checks = append(s.day.Checks, check)
	s.day.PalletsChecked++
	s.current = nil
	s.pendingErrors = nil
	s.phase = domain.PhaseIdle

	totals := domain.ComputeTotals(s.day.Checks)
	s.log.Info("pallet check finalized",
		slog.String("code", check.Code),
		slog.Int("box_count", check.BoxCount),
		slog.String("duration", check.Duration),
		slog.Int("errors", len(check.Errors)),
		slog.Int("pallets_checked", s.day.PalletsChecked),
	)

	return FinalizeResult{
		Check:          check,
		Totals:         totals,
		PalletsChecked: s.day.PalletsChecked,
		QuotaReached:   s.day.PalletsChecked == s.cfg.DailyQuota,
	}
}
