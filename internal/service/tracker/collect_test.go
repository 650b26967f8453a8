package tracker

import (
	"context"
	"errors"
	"testing"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// inCollection drives the session to the error-collection phase.
func inCollection(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	svc.StartWorkDay(ctx)
	startCheck(t, svc, "D100", 5)
	if err := svc.RequestEndCheck(ctx); err != nil {
		t.Fatalf("request end: %v", err)
	}
	if err := svc.BeginErrorCollection(ctx); err != nil {
		t.Fatalf("begin collection: %v", err)
	}
}

func TestErrorCollection_CommitsInOrder(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	inCollection(t, svc)

	if err := svc.AddPendingError(ctx, AddErrorInput{Type: domain.ErrorTypeShortage, Comment: "short", Product: &domain.ProductDetails{ProductName: "Milk"}}); err != nil {
		t.Fatalf("add first: %v", err)
	}
	if err := svc.AddPendingError(ctx, AddErrorInput{Type: domain.ErrorTypeQualityDefect, Comment: "dmg", Product: &domain.ProductDetails{ProductName: "Juice"}}); err != nil {
		t.Fatalf("add second: %v", err)
	}

	result, err := svc.FinishErrorCollection(ctx)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(result.Check.Errors) != 2 {
		t.Fatalf("errors = %d, want 2", len(result.Check.Errors))
	}
	if result.Check.Errors[0].Comment != "short" || result.Check.Errors[1].Comment != "dmg" {
		t.Errorf("order not preserved: %+v", result.Check.Errors)
	}
	if result.Totals.Errors != 2 {
		t.Errorf("totals.Errors = %d, want 2", result.Totals.Errors)
	}
}

func TestFinishErrorCollection_EmptyBuffer(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	inCollection(t, svc)

	_, err := svc.FinishErrorCollection(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for empty buffer, got %v", err)
	}
}

func TestAddPendingError_EmptyComment(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	inCollection(t, svc)

	err := svc.AddPendingError(context.Background(), AddErrorInput{Type: domain.ErrorTypePalletHeight, Comment: "  "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAddPendingError_OutsideCollectionPhase(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	svc.StartWorkDay(ctx)
	startCheck(t, svc, "D100", 5)

	err := svc.AddPendingError(ctx, AddErrorInput{Type: domain.ErrorTypePalletHeight, Comment: "too tall"})
	if !errors.Is(err, domain.ErrNoActiveCheck) {
		t.Fatalf("expected ErrNoActiveCheck outside collection, got %v", err)
	}
}

func TestRemovePendingError(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	inCollection(t, svc)

	for _, comment := range []string{"first", "second", "third"} {
		if err := svc.AddPendingError(ctx, AddErrorInput{Type: domain.ErrorTypePalletHeight, Comment: comment}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if err := svc.RemovePendingError(ctx, 1); err != nil {
		t.Fatalf("remove: %v", err)
	}

	pending := svc.PendingErrors(ctx)
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}
	if pending[0].Comment != "first" || pending[1].Comment != "third" {
		t.Errorf("pending after removal = %+v", pending)
	}

	if err := svc.RemovePendingError(ctx, 5); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error for out-of-range index, got %v", err)
	}
}

func TestBeginErrorCollection_ResetsBuffer(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	inCollection(t, svc)

	if err := svc.AddPendingError(ctx, AddErrorInput{Type: domain.ErrorTypePalletHeight, Comment: "stale entry"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Re-entering collection starts over.
	if err := svc.BeginErrorCollection(ctx); err != nil {
		t.Fatalf("re-begin: %v", err)
	}
	if pending := svc.PendingErrors(ctx); len(pending) != 0 {
		t.Errorf("buffer not reset: %+v", pending)
	}
}

func TestRequestCancelCollection(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	inCollection(t, svc)

	if err := svc.AddPendingError(ctx, AddErrorInput{Type: domain.ErrorTypePalletHeight, Comment: "doomed"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	confirmation, err := svc.RequestCancelCollection(ctx)
	if err != nil {
		t.Fatalf("request cancel: %v", err)
	}
	if _, err := svc.Confirm(ctx, confirmation.Token); err != nil {
		t.Fatalf("confirm cancel: %v", err)
	}

	status := svc.Status(ctx)
	if status.PendingErrorCount != 0 {
		t.Error("buffer must be discarded")
	}
	if status.Phase != domain.PhaseInProgress {
		t.Errorf("phase = %v, want in-progress (check still active)", status.Phase)
	}
	if status.Current == nil {
		t.Error("cancelling collection must not drop the check")
	}
}
