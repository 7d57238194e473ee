package threads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deepgram/airelay/internal/domain"
	"github.com/deepgram/airelay/internal/infrastructure/redis"
	"github.com/deepgram/airelay/pkg/logger"
)

const (
	redisNamePrefix = "airelay:thread:name:"
	redisIDPrefix   = "airelay:thread:id:"
	redisOrderKey   = "airelay:threads"
)

// RedisStore keeps one JSON record per thread name. Uniqueness of both name and
// thread id is claimed with SETNX, so concurrent inserts cannot both win.
type RedisStore struct {
	redisService *redis.Service
}

func NewRedisStore(redisService *redis.Service) *RedisStore {
	return &RedisStore{redisService: redisService}
}

func (rs *RedisStore) List(ctx context.Context) ([]domain.Thread, error) {
	names, err := rs.redisService.LRange(ctx, redisOrderKey, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread names: %w", err)
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = redisNamePrefix + name
	}

	values, err := rs.redisService.MGet(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to load threads: %w", err)
	}

	threads := make([]domain.Thread, 0, len(values))
	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			l := logger.For(logger.STORE)
			l.Warn().Str("name", names[i]).Msg("Thread listed in order key has no record")
			continue
		}
		var thread domain.Thread
		if err := json.Unmarshal([]byte(data), &thread); err != nil {
			return nil, fmt.Errorf("failed to decode thread %q: %w", names[i], err)
		}
		threads = append(threads, thread)
	}
	return threads, nil
}

func (rs *RedisStore) GetByName(ctx context.Context, name string) (domain.Thread, error) {
	name = NormalizeName(name)
	data, err := rs.redisService.Get(ctx, redisNamePrefix+name)
	if errors.Is(err, redis.Nil) {
		return domain.Thread{}, notFound(name)
	}
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to get thread %q: %w", name, err)
	}

	var thread domain.Thread
	if err := json.Unmarshal([]byte(data), &thread); err != nil {
		return domain.Thread{}, fmt.Errorf("failed to decode thread %q: %w", name, err)
	}
	return thread, nil
}

func (rs *RedisStore) Insert(ctx context.Context, thread domain.Thread) (domain.Thread, error) {
	thread.Name = NormalizeName(thread.Name)
	if err := validate(thread); err != nil {
		return domain.Thread{}, err
	}
	if thread.CreatedAt.IsZero() {
		thread.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(thread)
	if err != nil {
		return domain.Thread{}, err
	}

	idKey := redisIDPrefix + thread.ThreadID
	claimed, err := rs.redisService.SetNX(ctx, idKey, thread.Name, 0)
	if err != nil {
		return domain.Thread{}, fmt.Errorf("failed to claim thread id: %w", err)
	}
	if !claimed {
		return domain.Thread{}, conflict(thread)
	}

	nameKey := redisNamePrefix + thread.Name
	stored, err := rs.redisService.SetNX(ctx, nameKey, string(data), 0)
	if err != nil || !stored {
		rs.release(ctx, thread, idKey)
		if err != nil {
			return domain.Thread{}, fmt.Errorf("failed to store thread: %w", err)
		}
		return domain.Thread{}, conflict(thread)
	}

	if err := rs.redisService.RPush(ctx, redisOrderKey, thread.Name); err != nil {
		// a row missing from the order list would be unlistable yet block its name
		rs.release(ctx, thread, nameKey, idKey)
		return domain.Thread{}, fmt.Errorf("failed to record thread order: %w", err)
	}
	return thread, nil
}

// release undoes the claims of a failed insert, even after ctx is cancelled.
func (rs *RedisStore) release(ctx context.Context, thread domain.Thread, keys ...string) {
	if err := rs.redisService.Delete(context.WithoutCancel(ctx), keys...); err != nil {
		l := logger.For(logger.STORE)
		l.Warn().Err(err).Str("thread_id", thread.ThreadID).Str("name", thread.Name).Msg("Failed to release thread claims")
	}
}

func (rs *RedisStore) Close() error {
	return rs.redisService.Close()
}
