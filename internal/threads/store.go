// Package threads persists the mapping from human-chosen thread names to
// provider-assigned conversation thread ids.
package threads

import (
	"context"
	"fmt"
	"strings"

	"github.com/deepgram/airelay/internal/config"
	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/internal/infrastructure/redis"
	"github.com/deepgram/airelay/pkg/logger"
)

// Store is implemented by every thread backend. Rows are immutable once inserted.
type Store interface {
	// List returns all threads in creation order.
	List(ctx context.Context) ([]domain.Thread, error)
	// GetByName fails with domain.ErrNotFound when no thread has that name.
	GetByName(ctx context.Context, name string) (domain.Thread, error)
	// Insert fails with domain.ErrConflict when the name or thread id is taken.
	Insert(ctx context.Context, thread domain.Thread) (domain.Thread, error)
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend       string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string
}

// OptionsFromEnv reads store options from the environment.
func OptionsFromEnv() Options {
	opts := Options{
		Backend:    config.GetThreadStoreBackend(),
		SQLitePath: config.GetThreadsDBPath(),
	}
	if opts.Backend == config.StoreRedis {
		opts.RedisAddr = config.GetRedisURL()
		opts.RedisPassword = config.GetRedisPassword()
	}
	return opts
}

// Open returns the configured backend. An unreachable Redis falls back to sqlite.
func Open(ctx context.Context, opts Options) (Store, error) {
	l := logger.For(logger.STORE)

	switch opts.Backend {
	case config.StoreMemory:
		l.Warn().Msg("Using in-memory thread storage - threads are lost on restart")
		return NewMemoryStore(), nil
	case config.StoreRedis:
		svc, err := redis.NewService(ctx, opts.RedisAddr, opts.RedisPassword)
		if err == nil {
			l.Info().Str("addr", opts.RedisAddr).Msg("Using Redis for thread storage")
			return NewRedisStore(svc), nil
		}
		l.Error().Err(err).Msg("Redis connection failed")
		l.Warn().Str("path", opts.SQLitePath).Msg("Falling back to sqlite thread storage")
	}

	store, err := NewSQLiteStore(ctx, opts.SQLitePath)
	if err != nil {
		return nil, err
	}
	l.Info().Str("path", opts.SQLitePath).Msg("Using sqlite for thread storage")
	return store, nil
}

// NormalizeName is applied to thread names on insert and on lookup. Names stay
// case-sensitive; only surrounding whitespace is dropped.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

func validate(thread domain.Thread) error {
	if strings.TrimSpace(thread.Name) == "" {
		return fmt.Errorf("thread name is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(thread.ThreadID) == "" {
		return fmt.Errorf("thread id is required: %w", domain.ErrInvalidInput)
	}
	return nil
}

func notFound(name string) error {
	return fmt.Errorf("thread %q: %w", name, domain.ErrNotFound)
}

func conflict(thread domain.Thread) error {
	return fmt.Errorf("thread %q (%s) already exists: %w", thread.Name, thread.ThreadID, domain.ErrConflict)
}
