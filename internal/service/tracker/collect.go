package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// BeginErrorCollection opens the pending-errors buffer for the in-flight
// check. The buffer always starts empty, even after an earlier abandoned
// collection round.
func (s *Service) BeginErrorCollection(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrNoActiveCheck
	}
	s.pendingErrors = nil
	s.phase = domain.PhaseErrorCollection
	return nil
}

// AddPendingError validates and appends one defect report to the buffer.
// The buffer is ordered; reports are committed in the order added.
func (s *Service) AddPendingError(_ context.Context, input AddErrorInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.phase != domain.PhaseErrorCollection {
		return domain.ErrNoActiveCheck
	}

	report, err := domain.NewErrorReport(input.Type, input.Comment, input.Product)
	if err != nil {
		return err
	}
	s.pendingErrors = append(s.pendingErrors, report)
	return nil
}

// RemovePendingError removes the buffered report at index.
func (s *Service) RemovePendingError(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.phase != domain.PhaseErrorCollection {
		return domain.ErrNoActiveCheck
	}
	if index < 0 || index >= len(s.pendingErrors) {
		return domain.NewValidationError("index", fmt.Sprintf("out of range (%d pending)", len(s.pendingErrors)))
	}
	s.pendingErrors = append(s.pendingErrors[:index], s.pendingErrors[index+1:]...)
	return nil
}

// PendingErrors returns a copy of the buffered reports in order.
func (s *Service) PendingErrors(_ context.Context) []domain.ErrorReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ErrorReport(nil), s.pendingErrors...)
}

// FinishErrorCollection commits the buffer and finalizes the check.
// An empty buffer is refused: the zero-defect path is CompleteNoErrors.
func (s *Service) FinishErrorCollection(_ context.Context) (FinalizeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.phase != domain.PhaseErrorCollection {
		return FinalizeResult{}, domain.ErrNoActiveCheck
	}
	if len(s.pendingErrors) == 0 {
		return FinalizeResult{}, domain.NewValidationError("errors", "no error reports added")
	}
	return s.finalizeLocked(s.pendingErrors), nil
}

// RequestCancelCollection asks for confirmation before discarding the
// buffered reports. On accept the check returns to in-progress with an
// empty buffer.
func (s *Service) RequestCancelCollection(_ context.Context) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.phase != domain.PhaseErrorCollection {
		return nil, domain.ErrNoActiveCheck
	}

	s.pending = &confirmation{
		token:   uuid.New(),
		kind:    intentCancelCollection,
		message: fmt.Sprintf("Discard %d pending error reports?", len(s.pendingErrors)),
	}
	return s.pending.view(), nil
}
