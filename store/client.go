package store

import (
	"context"
	"errors"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/go-redis/redis/v8"
)

// RedisClient is the concrete go-redis handle Dial and New accept. Kept as
// a type alias so callers never need to import go-redis directly.
type RedisClient = goredis.Client

// pipeliner is the subset of a Redis pipeline's write commands Store
// issues. Narrowed the way saidriver.Driver narrows the vendor SAI
// binding: the rest of the Cmdable surface stays out of scope.
type pipeliner interface {
	HSet(key string, fields map[string]string)
	HDel(key string, fields ...string)
	Del(keys ...string)
	SAdd(key string, members ...string)
	SRem(key string, members ...string)
	Rename(oldKey, newKey string)
}

// redisClient is the subset of a connected Redis client Store needs:
// pipelined writes plus the handful of read commands the identifier map,
// object loader, and hidden/cold sets use.
type redisClient interface {
	Ping(ctx context.Context) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGet(ctx context.Context, key, field string) (string, bool, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)
	ScanKeys(ctx context.Context, match string) ([]string, error)
	Exec(ctx context.Context, fn func(pipeliner)) error
}

// redisAdapter implements redisClient over a real *goredis.Client, the
// same narrowing role saidriver plays over the vendor SAI binding.
type redisAdapter struct {
	client *goredis.Client
}

func newAdapter(client *goredis.Client) *redisAdapter {
	return &redisAdapter{client: client}
}

func (a *redisAdapter) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

func (a *redisAdapter) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return a.client.HGetAll(ctx, key).Result()
}

func (a *redisAdapter) HGet(ctx context.Context, key, field string) (string, bool, error) {
	val, err := a.client.HGet(ctx, key, field).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (a *redisAdapter) SMembers(ctx context.Context, key string) ([]string, error) {
	return a.client.SMembers(ctx, key).Result()
}

func (a *redisAdapter) SIsMember(ctx context.Context, key, member string) (bool, error) {
	return a.client.SIsMember(ctx, key, member).Result()
}

// ScanKeys enumerates every key matching pattern via cursor-based SCAN,
// grounded on newtron's scanKeys helper: avoids KEYS, which blocks the
// server for the duration of a full keyspace walk.
func (a *redisAdapter) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	var cursor uint64
	for {
		batch, next, err := a.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return keys, nil
}

// Exec runs fn against a fresh pipeline and executes it in one round trip.
func (a *redisAdapter) Exec(ctx context.Context, fn func(pipeliner)) error {
	pipe := a.client.Pipeline()
	fn(&pipeAdapter{ctx: ctx, pipe: pipe})
	_, err := pipe.Exec(ctx)
	return err
}

type pipeAdapter struct {
	ctx  context.Context
	pipe goredis.Pipeliner
}

func (p *pipeAdapter) HSet(key string, fields map[string]string) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	p.pipe.HSet(p.ctx, key, args...)
}

func (p *pipeAdapter) HDel(key string, fields ...string) { p.pipe.HDel(p.ctx, key, fields...) }
func (p *pipeAdapter) Del(keys ...string)                { p.pipe.Del(p.ctx, keys...) }
func (p *pipeAdapter) SAdd(key string, members ...string) {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	p.pipe.SAdd(p.ctx, key, args...)
}
func (p *pipeAdapter) SRem(key string, members ...string) {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	p.pipe.SRem(p.ctx, key, args...)
}
func (p *pipeAdapter) Rename(oldKey, newKey string) { p.pipe.Rename(p.ctx, oldKey, newKey) }

// Dial connects to addr, retrying the initial ping with exponential
// backoff up to 5 retries after the first attempt.
func Dial(ctx context.Context, addr string, db int, mode FlushMode) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, DB: db})

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	err := backoff.Retry(func() error {
		return client.Ping(ctx).Err()
	}, bo)
	if err != nil {
		return nil, err
	}

	return New(client, mode), nil
}
