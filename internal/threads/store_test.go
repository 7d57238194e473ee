package threads

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/deepgram/airelay/internal/config"
	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/internal/infrastructure/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type storeFactory func(t *testing.T) Store

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) Store {
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) Store {
			store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "threads.db"))
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store
		},
		"sqlite-memory": func(t *testing.T) Store {
			store, err := NewSQLiteStore(context.Background(), ":memory:")
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			svc, err := redis.NewService(context.Background(), mr.Addr(), "")
			require.NoError(t, err)
			store := NewRedisStore(svc)
			t.Cleanup(func() { store.Close() })
			return store
		},
	}
}

func strPtr(s string) *string { return &s }

func TestStoreRoundTrip(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			inserted, err := store.Insert(ctx, domain.Thread{ThreadID: "thread_abc123", Name: "Deadpond"})
			require.NoError(t, err)
			assert.False(t, inserted.CreatedAt.IsZero(), "store must default the creation time")

			got, err := store.GetByName(ctx, "Deadpond")
			require.NoError(t, err)
			assert.Equal(t, "Deadpond", got.Name)
			assert.Equal(t, "thread_abc123", got.ThreadID)
			assert.Nil(t, got.Description)
			assert.True(t, inserted.CreatedAt.Equal(got.CreatedAt))
		})
	}
}

func TestStoreDescription(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "bridge", Description: strPtr("talks on the bridge")})
			require.NoError(t, err)

			got, err := store.GetByName(ctx, "bridge")
			require.NoError(t, err)
			require.NotNil(t, got.Description)
			assert.Equal(t, "talks on the bridge", *got.Description)
		})
	}
}

func TestStoreDescriptionIsCopied(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			desc := "talks on the bridge"
			_, err := store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "bridge", Description: &desc})
			require.NoError(t, err)
			desc = "changed by caller"

			got, err := store.GetByName(ctx, "bridge")
			require.NoError(t, err)
			require.NotNil(t, got.Description)
			assert.Equal(t, "talks on the bridge", *got.Description)
			*got.Description = "changed by reader"

			listed, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, listed, 1)
			require.NotNil(t, listed[0].Description)
			assert.Equal(t, "talks on the bridge", *listed[0].Description)
		})
	}
}

func TestStoreTrimsNames(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			inserted, err := store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "  bridge "})
			require.NoError(t, err)
			assert.Equal(t, "bridge", inserted.Name)

			for _, lookup := range []string{"bridge", " bridge ", "\tbridge"} {
				got, err := store.GetByName(ctx, lookup)
				require.NoError(t, err, lookup)
				assert.Equal(t, "thread_1", got.ThreadID)
			}

			_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_2", Name: "bridge  "})
			assert.ErrorIs(t, err, domain.ErrConflict)

			_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_3", Name: "   "})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStoreGetByNameNotFound(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			_, err := newStore(t).GetByName(context.Background(), "does-not-exist")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestStoreDuplicateName(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "Deadpond"})
			require.NoError(t, err)

			_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_2", Name: "Deadpond"})
			assert.ErrorIs(t, err, domain.ErrConflict)

			all, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
			assert.Equal(t, "thread_1", all[0].ThreadID)
		})
	}
}

func TestStoreDuplicateThreadID(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "first"})
			require.NoError(t, err)

			_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "second"})
			assert.ErrorIs(t, err, domain.ErrConflict)

			_, err = store.GetByName(ctx, "second")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			// the losing insert must not block its name for later use
			_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_2", Name: "second"})
			assert.NoError(t, err)
		})
	}
}

func TestStoreInvalidInput(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			_, err := store.Insert(context.Background(), domain.Thread{ThreadID: "thread_1"})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)

			_, err = store.Insert(context.Background(), domain.Thread{Name: "no-id"})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestStoreListOrder(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			all, err := store.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)

			names := []string{"zulu", "alpha", "mike"}
			for i, n := range names {
				_, err := store.Insert(ctx, domain.Thread{ThreadID: fmt.Sprintf("thread_%d", i), Name: n})
				require.NoError(t, err)
			}

			all, err = store.List(ctx)
			require.NoError(t, err)
			require.Len(t, all, len(names))
			for i, n := range names {
				assert.Equal(t, n, all[i].Name)
			}
		})
	}
}

func TestStoreConcurrentInsertSameName(t *testing.T) {
	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			const workers = 10
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				successes int
				conflicts int
			)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					_, err := store.Insert(ctx, domain.Thread{ThreadID: fmt.Sprintf("thread_%d", i), Name: "contested"})
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						successes++
					case assert.ErrorIs(t, err, domain.ErrConflict):
						conflicts++
					}
				}(i)
			}
			wg.Wait()

			assert.Equal(t, 1, successes)
			assert.Equal(t, workers-1, conflicts)

			all, err := store.List(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 1)
		})
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, Options{Backend: config.StoreMemory})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, store)
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := Open(ctx, Options{Backend: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "nested", "threads.db")})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &SQLiteStore{}, store)
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		store, err := Open(ctx, Options{Backend: config.StoreRedis, RedisAddr: mr.Addr()})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &RedisStore{}, store)
	})

	t.Run("unreachable redis falls back to sqlite", func(t *testing.T) {
		store, err := Open(ctx, Options{
			Backend:    config.StoreRedis,
			RedisAddr:  "127.0.0.1:1",
			SQLitePath: filepath.Join(t.TempDir(), "threads.db"),
		})
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &SQLiteStore{}, store)
	})
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "threads.db")

	store, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "default"})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetByName(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "thread_1", got.ThreadID)
}

func TestRedisStoreInsertRollsBackOnOrderFailure(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	svc, err := redis.NewService(ctx, mr.Addr(), "")
	require.NoError(t, err)
	store := NewRedisStore(svc)
	t.Cleanup(func() { store.Close() })

	// a string under the order key makes RPUSH fail with WRONGTYPE
	require.NoError(t, mr.Set(redisOrderKey, "not-a-list"))

	_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "Deadpond"})
	require.Error(t, err)

	_, err = store.GetByName(ctx, "Deadpond")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, mr.Exists(redisNamePrefix+"Deadpond"))
	assert.False(t, mr.Exists(redisIDPrefix+"thread_1"))

	mr.Del(redisOrderKey)

	_, err = store.Insert(ctx, domain.Thread{ThreadID: "thread_1", Name: "Deadpond"})
	require.NoError(t, err)

	listed, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Deadpond", listed[0].Name)
}
