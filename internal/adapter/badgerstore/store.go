// Package badgerstore is the durable key-value adapter backed by an embedded
// BadgerDB instance. It persists the shift snapshot and the remembered-login
// marker across process restarts.
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/heartmarshall/pallettrack-backend/internal/domain"
)

// Store wraps a BadgerDB database behind a small Get/Set/Remove surface.
// Safe for concurrent use.
type Store struct {
	db *badger.DB
}

// Options controls how the database is opened.
type Options struct {
	// Dir is the directory for database files. Created if missing.
	// Ignored when InMemory is true.
	Dir string
	// InMemory opens the database without disk persistence. Used in tests.
	InMemory bool
	// Logger receives BadgerDB's internal log output. Nil disables it.
	Logger *slog.Logger
}

// Open opens (or creates) the database described by opts.
// The caller must Close the returned store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("badgerstore: dir is required for persistent database")
	}

	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("badgerstore: create dir %s: %w", opts.Dir, err)
		}
		badgerOpts = badger.DefaultOptions(opts.Dir).WithSyncWrites(true)
	}
	badgerOpts = badgerOpts.WithNumVersionsToKeep(1)

	if opts.Logger != nil {
		badgerOpts = badgerOpts.WithLogger(&badgerLogger{logger: opts.Logger})
	} else {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("badgerstore: open: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value stored under key.
// Returns domain.ErrNotFound when the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, mapError(err, key)
	}
	return value, nil
}

// Set stores value under key, overwriting any existing value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return mapError(err, key)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return mapError(err, key)
	}
	return nil
}

// Ping verifies the database is open and readable.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("badgerstore: database is closed")
	}
	return nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// mapError converts BadgerDB errors to domain errors.
func mapError(err error, key string) error {
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("key %s: %w", key, domain.ErrNotFound)
	}
	return fmt.Errorf("key %s: %w", key, err)
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
