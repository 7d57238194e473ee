// Package resolver decides which provider thread an assistant prompt runs on.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/pkg/logger"
)

type ThreadStore interface {
	GetByName(ctx context.Context, name string) (domain.Thread, error)
	Insert(ctx context.Context, thread domain.Thread) (domain.Thread, error)
}

type ThreadRelay interface {
	NewThread(ctx context.Context) (string, error)
	ThreadPrompt(ctx context.Context, prompt, threadID string) (string, error)
}

// Result is the assistant reply and the thread it was produced on.
type Result struct {
	Text     string
	ThreadID string
}

type Service struct {
	store ThreadStore
	relay ThreadRelay
}

func NewService(store ThreadStore, relay ThreadRelay) *Service {
	return &Service{store: store, relay: relay}
}

// Prompt runs prompt on a thread. With create set a fresh provider thread is
// allocated and nothing is stored. Otherwise threadName is looked up, falling
// back to the default thread.
func (s *Service) Prompt(ctx context.Context, threadName string, create bool, prompt string) (Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return Result{}, fmt.Errorf("prompt is required: %w", domain.ErrInvalidInput)
	}

	l := logger.For(logger.RESOLVER)

	var threadID string
	if create {
		id, err := s.relay.NewThread(ctx)
		if err != nil {
			return Result{}, err
		}
		l.Info().Str("thread_name", threadName).Str("thread_id", id).Msg("Created unnamed thread for prompt")
		threadID = id
	} else {
		thread, err := s.Resolve(ctx, threadName)
		if err != nil {
			return Result{}, err
		}
		threadID = thread.ThreadID
	}

	text, err := s.relay.ThreadPrompt(ctx, prompt, threadID)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: text, ThreadID: threadID}, nil
}

// Resolve returns the stored thread called name, or the default thread when
// name is unknown.
func (s *Service) Resolve(ctx context.Context, name string) (domain.Thread, error) {
	name = strings.TrimSpace(name)
	l := logger.For(logger.RESOLVER)

	thread, err := s.store.GetByName(ctx, name)
	if err == nil {
		l.Debug().Str("thread_name", name).Str("thread_id", thread.ThreadID).Msg("Resolved thread")
		return thread, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Thread{}, err
	}

	thread, err = s.store.GetByName(ctx, domain.DefaultThreadName)
	switch {
	case err == nil:
		l.Info().
			Str("thread_name", name).
			Str("fallback", domain.DefaultThreadName).
			Str("thread_id", thread.ThreadID).
			Msg("Thread not found, using fallback")
		return thread, nil
	case errors.Is(err, domain.ErrNotFound):
		l.Warn().Str("thread_name", name).Msg("Thread not found and no fallback thread exists")
		return domain.Thread{}, &domain.ThreadResolutionError{
			Requested: name,
			Fallback:  domain.DefaultThreadName,
		}
	default:
		return domain.Thread{}, err
	}
}

// CreateNamedThread allocates a provider thread and stores it under name.
func (s *Service) CreateNamedThread(ctx context.Context, name string, description *string) (domain.Thread, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Thread{}, fmt.Errorf("thread name is required: %w", domain.ErrInvalidInput)
	}

	existing, err := s.store.GetByName(ctx, name)
	if err == nil {
		return domain.Thread{}, fmt.Errorf("thread %q (%s) already exists: %w", name, existing.ThreadID, domain.ErrConflict)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Thread{}, err
	}

	threadID, err := s.relay.NewThread(ctx)
	if err != nil {
		return domain.Thread{}, err
	}

	l := logger.For(logger.RESOLVER)

	thread, err := s.store.Insert(ctx, domain.Thread{
		ThreadID:    threadID,
		Name:        name,
		Description: description,
	})
	if err != nil {
		// lost a race for the name; the provider thread stays orphaned
		l.Warn().Err(err).Str("thread_name", name).Str("thread_id", threadID).Msg("Failed to store new thread")
		return domain.Thread{}, err
	}

	l.Info().Str("thread_name", name).Str("thread_id", threadID).Msg("Created named thread")
	return thread, nil
}
