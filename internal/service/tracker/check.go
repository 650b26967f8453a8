package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// RequestStartCheck validates the inputs and asks for confirmation before
// starting a pallet check. Validation order matters: work-day state first,
// then box count, then code format, then duplicates, then the
// one-check-at-a-time rule.
func (s *Service) RequestStartCheck(_ context.Context, input StartCheckInput) (*Confirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.day.Open {
		return nil, domain.ErrNotWorking
	}
	if input.BoxCount <= 0 {
		return nil, domain.NewValidationError("boxCount", "must be at least 1")
	}

	code := domain.NormalizeCode(input.Code)
	if code != "" {
		if !domain.ValidPalletCode(code) {
			return nil, domain.NewValidationError("code", "invalid format, example: D40505050")
		}
		if domain.HasDuplicateCode(code, s.day.Checks) {
			return nil, domain.NewValidationError("code", fmt.Sprintf("pallet %s already checked today", code))
		}
	}

	if s.current != nil {
		return nil, domain.ErrCheckInProgress
	}

	label := code
	if label == "" {
		label = "without code"
	}
	s.pending = &confirmation{
		token:    uuid.New(),
		kind:     intentStartCheck,
		message:  fmt.Sprintf("Start check of pallet %s with %d boxes?", label, input.BoxCount),
		code:     code,
		boxCount: input.BoxCount,
	}
	s.phase = domain.PhaseAwaitingConfirmation
	return s.pending.view(), nil
}

// startCheckLocked creates the in-flight check from a confirmed request.
// Caller must hold s.mu.
func (s *Service) startCheckLocked(code string, boxCount int) domain.PalletCheck {
	now := s.now()
	if code == "" {
		code = domain.PlaceholderCode(now)
	}
	check := domain.PalletCheck{
		ID:        uuid.New(),
		Code:      code,
		BoxCount:  boxCount,
		StartedAt: now,
	}
	s.current = &check
	s.phase = domain.PhaseInProgress

	s.log.Info("pallet check started", "code", code, "box_count", boxCount)
	return check
}

// RequestEndCheck moves the in-flight check to the error-decision step, where
// the operator states whether defects were found.
// Fails with ErrNoActiveCheck when nothing is in progress.
func (s *Service) RequestEndCheck(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return domain.ErrNoActiveCheck
	}
	s.phase = domain.PhaseErrorDecision
	return nil
}

// CompleteNoErrors finalizes the in-flight check with an empty defect list.
// Only reachable from the error-decision step entered by RequestEndCheck,
// mirroring how the collection operations gate on their own phase.
func (s *Service) CompleteNoErrors(_ context.Context) (FinalizeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil || s.phase != domain.PhaseErrorDecision {
		return FinalizeResult{}, domain.ErrNoActiveCheck
	}
	return s.finalizeLocked(nil), nil
}

// CheckStats returns one of today's completed checks by position.
// Returns ErrNotFound for an out-of-range index.
func (s *Service) CheckStats(_ context.Context, index int) (domain.PalletCheck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.day.Checks) {
		return domain.PalletCheck{}, fmt.Errorf("check %d: %w", index, domain.ErrNotFound)
	}
	return s.day.Checks[index], nil
}
