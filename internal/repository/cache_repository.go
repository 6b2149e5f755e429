package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"secure-print-release/config"
	"secure-print-release/internal/model"
	"secure-print-release/internal/util"
	"time"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

// cachedJob : model.Job hides the release token from JSON, the cache needs it
type cachedJob struct {
	model.Job
	SecureToken string `json:"secureToken"`
}

func (r *CacheRepository) SetJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(cachedJob{Job: *job, SecureToken: job.SecureToken})
	if err != nil {
		return util.LogError("[CacheRepository] failed to serialize job", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(job.ID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("[CacheRepository] failed to store job in Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("unexpected Redis reply: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetJob(ctx context.Context, id string) (*model.Job, error) {
	val, err := r.client.Client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	} else if err != nil {
		return nil, util.LogError("[CacheRepository] failed to read job from Redis", err)
	}

	var cached cachedJob
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, util.LogError("[CacheRepository] failed to deserialize cached job", err)
	}
	job := cached.Job
	job.SecureToken = cached.SecureToken
	return &job, nil
}

func (r *CacheRepository) DeleteJob(ctx context.Context, id string) error {
	if err := r.client.Client.Del(ctx, r.key(id)).Err(); err != nil {
		return util.LogError("[CacheRepository] failed to delete job from Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(id string) string {
	return fmt.Sprintf("job:%s", id)
}

// NoopCache : used when Redis is not configured
type NoopCache struct{}

func (NoopCache) SetJob(context.Context, *model.Job) error          { return nil }
func (NoopCache) GetJob(context.Context, string) (*model.Job, error) { return nil, nil }
func (NoopCache) DeleteJob(context.Context, string) error            { return nil }
