package subscriber

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"
)

// RedisBackend keeps ids as members of a single Redis set.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisClient opens a client for the given address.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// NewRedisBackend stores the set under prefix+name.
func NewRedisBackend(client *redis.Client, prefix, name string) *RedisBackend {
	return &RedisBackend{client: client, key: prefix + name}
}

func (r *RedisBackend) Name() string { return "redis:" + r.key }

// Load reads all set members.
func (r *RedisBackend) Load(ctx context.Context) ([]int64, error) {
	members, err := r.client.SMembers(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", r.key, err)
	}
	return ParseIDs(r.Name(), strings.NewReader(strings.Join(members, "\n")))
}

// Save replaces the set atomically with DEL + SADD in one transaction.
func (r *RedisBackend) Save(ctx context.Context, ids []int64) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(ids) > 0 {
			members := make([]interface{}, len(ids))
			for i, id := range ids {
				members[i] = id
			}
			pipe.SAdd(ctx, r.key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rewrite %s: %w", r.key, err)
	}
	return nil
}
