package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// StartWorkDay opens a new work day, resetting today's checks, the completed
// counter, any in-flight check, and the pending-errors buffer. Always
// succeeds; an already-open day is overwritten, so callers should confirm
// with the operator first when unsaved work exists.
func (s *Service) StartWorkDay(_ context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.day = domain.WorkDay{
		StartedAt: &now,
		Open:      true,
	}
	s.current = nil
	s.pendingErrors = nil
	s.pending = nil
	s.phase = domain.PhaseIdle

	s.log.Info("work day started", slog.Time("started_at", now))
	return s.statusLocked()
}

// RequestEndWorkDay asks for confirmation before closing the day.
// Fails with ErrNotWorking when no day is open. The message warns about an
// unmet quota so the operator can back out.
func (s *Service) RequestEndWorkDay(_ context.Context) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.day.Open {
		return nil, domain.ErrNotWorking
	}

	message := "End the work day?"
	if s.day.PalletsChecked < s.cfg.DailyQuota {
		message = fmt.Sprintf("Only %d of %d pallets checked. End the work day?",
			s.day.PalletsChecked, s.cfg.DailyQuota)
	}

	s.pending = &confirmation{
		token:   uuid.New(),
		kind:    intentEndWorkDay,
		message: message,
	}
	return s.pending.view(), nil
}

// endWorkDayLocked closes the day, archives it into history, and persists
// the snapshot. When the save fails the close is rolled back, so the
// in-memory session never ends up closed behind a reported error.
// Caller must hold s.mu.
func (s *Service) endWorkDayLocked(ctx context.Context) error {
	now := s.now()
	key := domain.DateKey(now)

	prevDay := s.day
	prevArchived, hadArchived := s.history[key]

	s.day.EndedAt = &now
	s.day.Open = false
	s.history[key] = domain.ArchivedDay{
		WorkStart:      s.day.StartedAt,
		WorkEnd:        s.day.EndedAt,
		PalletsChecked: s.day.PalletsChecked,
		Checks:         append([]domain.PalletCheck(nil), s.day.Checks...),
	}

	if err := s.saveLocked(ctx); err != nil {
		s.day = prevDay
		if hadArchived {
			s.history[key] = prevArchived
		} else {
			delete(s.history, key)
		}
		return fmt.Errorf("tracker.endWorkDay save: %w", err)
	}

	s.log.Info("work day ended",
		slog.String("date", key),
		slog.Int("pallets_checked", s.day.PalletsChecked),
	)
	return nil
}
