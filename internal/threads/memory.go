package threads

import (
	"context"
	"sync"
	"time"

	"github.com/deepgram/airelay/internal/domain"
)

type MemoryStore struct {
	mu      sync.RWMutex
	threads []domain.Thread
	byName  map[string]int
	byID    map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byName: make(map[string]int),
		byID:   make(map[string]int),
	}
}

func (ms *MemoryStore) List(ctx context.Context) ([]domain.Thread, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	out := make([]domain.Thread, len(ms.threads))
	for i, thread := range ms.threads {
		out[i] = cloneThread(thread)
	}
	return out, nil
}

func (ms *MemoryStore) GetByName(ctx context.Context, name string) (domain.Thread, error) {
	name = NormalizeName(name)

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	i, ok := ms.byName[name]
	if !ok {
		return domain.Thread{}, notFound(name)
	}
	return cloneThread(ms.threads[i]), nil
}

func (ms *MemoryStore) Insert(ctx context.Context, thread domain.Thread) (domain.Thread, error) {
	thread = cloneThread(thread)
	thread.Name = NormalizeName(thread.Name)
	if err := validate(thread); err != nil {
		return domain.Thread{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, taken := ms.byName[thread.Name]; taken {
		return domain.Thread{}, conflict(thread)
	}
	if _, taken := ms.byID[thread.ThreadID]; taken {
		return domain.Thread{}, conflict(thread)
	}

	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now().UTC()
	}
	ms.threads = append(ms.threads, thread)
	ms.byName[thread.Name] = len(ms.threads) - 1
	ms.byID[thread.ThreadID] = len(ms.threads) - 1
	return cloneThread(thread), nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

// cloneThread copies the description so callers never share the stored string.
func cloneThread(thread domain.Thread) domain.Thread {
	if thread.Description != nil {
		desc := *thread.Description
		thread.Description = &desc
	}
	return thread
}
