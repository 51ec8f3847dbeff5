// Package cache — общий кэш JWKS-документа в Redis для нескольких реплик сервиса.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "coffee-shop:"

// Config — либо готовый Client, либо Addr
type Config struct {
	Client    *redis.Client
	Addr      string
	KeyPrefix string
}

// KeySetStore хранит JWKS одного эмитента под ключом <prefix>jwks:<url>
type KeySetStore struct {
	client *redis.Client
	key    string
	owned  bool
}

func NewKeySetStore(ctx context.Context, cfg Config, jwksURL string) (*KeySetStore, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url is required")
	}
	client, owned := cfg.Client, false
	if client == nil {
		if cfg.Addr == "" {
			return nil, errors.New("redis addr is required")
		}
		client, owned = redis.NewClient(&redis.Options{Addr: cfg.Addr}), true
	}
	if err := client.Ping(ctx).Err(); err != nil {
		if owned {
			_ = client.Close()
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &KeySetStore{client: client, key: prefix + "jwks:" + jwksURL, owned: owned}, nil
}

// Load — документ и остаток его TTL; nil, 0, nil если документа нет
func (s *KeySetStore) Load(ctx context.Context) ([]byte, time.Duration, error) {
	var (
		get  *redis.StringCmd
		pttl *redis.DurationCmd
	)
	_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		get = p.Get(ctx, s.key)
		pttl = p.PTTL(ctx, s.key)
		return nil
	})
	if errors.Is(err, redis.Nil) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	b, err := get.Bytes()
	if err != nil {
		return nil, 0, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	// -1 (без срока) и -2 (ключ исчез) отдаём как «неизвестно»
	left := pttl.Val()
	if left < 0 {
		left = 0
	}
	return b, left, nil
}

func (s *KeySetStore) Store(ctx context.Context, doc []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key, doc, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Close закрывает клиента, только если он создан здесь
func (s *KeySetStore) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
