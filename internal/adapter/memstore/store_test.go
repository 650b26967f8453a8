package memstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

func TestStore_SetGetRemove(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	if err := store.Set(ctx, "current-session-user", []byte("operator")); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, "current-session-user")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got) != "operator" {
		t.Errorf("got %q, want operator", got)
	}

	if err := store.Remove(ctx, "current-session-user"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := store.Get(ctx, "current-session-user"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := New()
	if _, err := store.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("abc")); err != nil {
		t.Fatalf("set: %v", err)
	}

	first, _ := store.Get(ctx, "k")
	first[0] = 'X'

	second, _ := store.Get(ctx, "k")
	if string(second) != "abc" {
		t.Errorf("stored value mutated through returned slice: %q", second)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	store := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "k", []byte("v"))
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, "k")
		}()
	}
	wg.Wait()
}
