package tracker

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// ConfirmResult is the outcome of accepting a confirmation.
// Exactly one of the optional fields is set, matching the confirmed intent.
type ConfirmResult struct {
	Action string
	// StartedCheck is set when a start-check intent was confirmed.
	StartedCheck *domain.PalletCheck
	Status       Status
}

// Confirm accepts the pending confirmation identified by token.
// Fails with ErrNoPendingConfirmation when nothing is pending and with
// ErrStaleConfirmation when the token does not match the current request:
// an accept from a stale dialog must never fire a newer, unrelated intent.
func (s *Service) Confirm(ctx context.Context, token uuid.UUID) (ConfirmResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return ConfirmResult{}, domain.ErrNoPendingConfirmation
	}
	if s.pending.token != token {
		return ConfirmResult{}, domain.ErrStaleConfirmation
	}

	pending := s.pending
	s.pending = nil

	result := ConfirmResult{Action: string(pending.kind)}
	switch pending.kind {
	case intentStartCheck:
		check := s.startCheckLocked(pending.code, pending.boxCount)
		result.StartedCheck = &check

	case intentEndWorkDay:
		if err := s.endWorkDayLocked(ctx); err != nil {
			return ConfirmResult{}, err
		}

	case intentCancelCollection:
		s.pendingErrors = nil
		s.phase = domain.PhaseInProgress

	default:
		return ConfirmResult{}, fmt.Errorf("unknown confirmation intent %q", pending.kind)
	}

	result.Status = s.statusLocked()
	return result, nil
}

// CancelConfirmation drops the pending confirmation, if any. Idempotent:
// closing a dialog that was already replaced or resolved is not an error.
func (s *Service) CancelConfirmation(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return
	}
	if s.pending.kind == intentStartCheck && s.phase == domain.PhaseAwaitingConfirmation {
		s.phase = domain.PhaseIdle
	}
	s.pending = nil
}
