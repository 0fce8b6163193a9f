package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"movecalc/internal/model"
)

const redisKeyPrefix = "movecalc:configs:"

// Redis stores each owner's configurations in one hash: id -> JSON record.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedis connects to the Redis server at addr.
func NewRedis(addr string) *Redis {
	return NewRedisWithClient(redis.NewClient(&redis.Options{Addr: addr}))
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func redisKey(owner string) string {
	return redisKeyPrefix + owner
}

func (r *Redis) List(ctx context.Context, owner string) ([]Summary, error) {
	vals, err := r.client.HVals(ctx, redisKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("list configs: %w", err)
	}
	out := make([]Summary, 0, len(vals))
	for _, v := range vals {
		var rec Record
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, fmt.Errorf("list configs: %w", err)
		}
		out = append(out, rec.Summary)
	}
	sortSummaries(out)
	return out, nil
}

func (r *Redis) Save(ctx context.Context, owner, name string, payload model.Inputs) (string, error) {
	rec, err := newRecord(owner, name, payload, r.now())
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	if err := r.client.HSet(ctx, redisKey(owner), rec.ID, raw).Err(); err != nil {
		return "", fmt.Errorf("save config: %w", err)
	}
	return rec.ID, nil
}

func (r *Redis) Get(ctx context.Context, owner, id string) (model.Inputs, error) {
	v, err := r.client.HGet(ctx, redisKey(owner), id).Result()
	if errors.Is(err, redis.Nil) {
		return model.Inputs{}, ErrNotFound
	}
	if err != nil {
		return model.Inputs{}, fmt.Errorf("get config: %w", err)
	}
	var rec Record
	if err := json.Unmarshal([]byte(v), &rec); err != nil {
		return model.Inputs{}, fmt.Errorf("get config: %w", err)
	}
	return rec.Payload, nil
}

func (r *Redis) Delete(ctx context.Context, owner, id string) error {
	n, err := r.client.HDel(ctx, redisKey(owner), id).Result()
	if err != nil {
		return fmt.Errorf("delete config: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
