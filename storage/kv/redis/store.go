package rediskv

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/brightpath/academia/storage/kv"
)

const keyPrefix = "academia:"

type store struct {
	client *redis.Client
}

var _ kv.Store = (*store)(nil)

func Open(ctx context.Context, addr string, db int) (kv.Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &store{client: client}, nil
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, kv.ErrKeyNotFound
	}
	return data, err
}

func (s *store) Set(ctx context.Context, key string, data []byte) error {
	return s.client.Set(ctx, keyPrefix+key, data, 0).Err()
}
