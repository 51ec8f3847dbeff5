package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	jose "github.com/go-jose/go-jose/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultKeySetTTL       = 10 * time.Minute
	defaultFetchTimeout    = 5 * time.Second
	defaultRefreshCooldown = 30 * time.Second
	maxKeySetBytes         = 1 << 20
)

// Key — публичный ключ эмитента из JWKS
type Key struct {
	ID        string
	Algorithm string
	Public    any
}

// KeySetCache — общий для реплик кэш JWKS-документа.
// Load возвращает документ и сколько ему осталось жить; при промахе nil, 0, nil.
type KeySetCache interface {
	Load(ctx context.Context) (doc []byte, ttl time.Duration, err error)
	Store(ctx context.Context, doc []byte, ttl time.Duration) error
}

type KeyResolverOption func(*KeyResolver)

func WithHTTPClient(c *http.Client) KeyResolverOption {
	return func(r *KeyResolver) { r.client = c }
}

// WithKeySetTTL — сколько живёт загруженный набор ключей
func WithKeySetTTL(d time.Duration) KeyResolverOption {
	return func(r *KeyResolver) { r.ttl = d }
}

func WithFetchTimeout(d time.Duration) KeyResolverOption {
	return func(r *KeyResolver) { r.fetchTimeout = d }
}

// WithRefreshCooldown — минимальный интервал между загрузками при неизвестном kid
func WithRefreshCooldown(d time.Duration) KeyResolverOption {
	return func(r *KeyResolver) { r.cooldown = d }
}

func WithSharedCache(c KeySetCache) KeyResolverOption {
	return func(r *KeyResolver) { r.shared = c }
}

func WithResolverLogger(l *zap.Logger) KeyResolverOption {
	return func(r *KeyResolver) { r.logger = l }
}

func WithResolverClock(now func() time.Time) KeyResolverOption {
	return func(r *KeyResolver) { r.now = now }
}

// KeyResolver загружает и кэширует JWKS эмитента. Загрузка идёт одна на всех
// ожидающих, неудачная загрузка кэш не трогает.
type KeyResolver struct {
	url          string
	client       *http.Client
	ttl          time.Duration
	fetchTimeout time.Duration
	cooldown     time.Duration
	shared       KeySetCache
	logger       *zap.Logger
	now          func() time.Time

	group singleflight.Group

	mu        sync.RWMutex
	keys      map[string]Key
	expiresAt time.Time
	fetchedAt time.Time
	gen       uint64
}

func NewKeyResolver(jwksURL string, opts ...KeyResolverOption) (*KeyResolver, error) {
	if jwksURL == "" {
		return nil, errors.New("jwks url is required")
	}
	r := &KeyResolver{
		url:          jwksURL,
		client:       http.DefaultClient,
		ttl:          defaultKeySetTTL,
		fetchTimeout: defaultFetchTimeout,
		cooldown:     defaultRefreshCooldown,
		logger:       zap.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.ttl <= 0 {
		r.ttl = defaultKeySetTTL
	}
	if r.fetchTimeout <= 0 {
		r.fetchTimeout = defaultFetchTimeout
	}
	return r, nil
}

// Resolve — ключ по kid. Ошибки: ErrKeyNotFound, ErrKeySetUnavailable.
func (r *KeyResolver) Resolve(ctx context.Context, kid string) (Key, error) {
	if kid == "" {
		return Key{}, newFailure(ErrKeyNotFound, errors.New("token header has no kid"))
	}
	key, ok, fresh, recent := r.lookup(kid, r.now())
	if ok {
		return key, nil
	}
	if fresh && recent {
		return Key{}, newFailure(ErrKeyNotFound, fmt.Errorf("kid %q not in key set", kid))
	}
	// при неизвестном kid в свежем наборе идём мимо общего кэша: ключ могли ротировать
	if err := r.refresh(ctx, !fresh); err != nil {
		return Key{}, err
	}
	if key, ok, _, _ := r.lookup(kid, r.now()); ok {
		return key, nil
	}
	return Key{}, newFailure(ErrKeyNotFound, fmt.Errorf("kid %q not in key set", kid))
}

// Ping — готовность: свежий набор в кэше или удачная загрузка
func (r *KeyResolver) Ping(ctx context.Context) error {
	if _, _, fresh, _ := r.lookup("", r.now()); fresh {
		return nil
	}
	return r.refresh(ctx, true)
}

func (r *KeyResolver) lookup(kid string, now time.Time) (key Key, ok, fresh, recent bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fresh = r.keys != nil && now.Before(r.expiresAt)
	recent = !r.fetchedAt.IsZero() && now.Sub(r.fetchedAt) < r.cooldown
	if !fresh {
		return Key{}, false, false, recent
	}
	key, ok = r.keys[kid]
	return key, ok, fresh, recent
}

func (r *KeyResolver) refresh(ctx context.Context, useShared bool) error {
	flight := "jwks:net"
	if useShared {
		flight = "jwks:shared"
	}
	ch := r.group.DoChan(flight, func() (any, error) {
		// загрузка не зависит от отмены запроса, который её начал
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.fetchTimeout)
		defer cancel()
		return nil, r.load(fctx, useShared)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return newFailure(ErrKeySetUnavailable, res.Err)
		}
		return nil
	case <-ctx.Done():
		return newFailure(ErrKeySetUnavailable, ctx.Err())
	}
}

func (r *KeyResolver) load(ctx context.Context, useShared bool) error {
	if useShared && r.shared != nil {
		gen := r.generation()
		doc, left, err := r.shared.Load(ctx)
		switch {
		case err != nil:
			r.logger.Warn("shared jwks cache load failed", zap.Error(err))
		case doc != nil:
			keys, err := parseKeySet(doc)
			if err == nil {
				r.installShared(keys, left, gen)
				return nil
			}
			r.logger.Warn("shared jwks cache holds unusable document", zap.Error(err))
		}
	}

	doc, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	keys, err := parseKeySet(doc)
	if err != nil {
		return err
	}
	r.install(keys)
	r.logger.Info("jwks refreshed", zap.String("url", r.url), zap.Int("keys", len(keys)))

	if r.shared != nil {
		if err := r.shared.Store(ctx, doc, r.ttl); err != nil {
			r.logger.Warn("shared jwks cache store failed", zap.Error(err))
		}
	}
	return nil
}

func (r *KeyResolver) generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}

// install — набор, только что загруженный из сети
func (r *KeyResolver) install(keys map[string]Key) {
	now := r.now()
	r.mu.Lock()
	r.keys = keys
	r.fetchedAt = now
	r.expiresAt = now.Add(r.ttl)
	r.gen++
	r.mu.Unlock()
}

// installShared — набор из общего кэша живёт не дольше ключа в нём и не затирает
// загрузку из сети, закончившуюся после начала чтения (gen). fetchedAt не трогает:
// cooldown считается только по сетевым загрузкам.
func (r *KeyResolver) installShared(keys map[string]Key, left time.Duration, gen uint64) {
	ttl := r.ttl
	if left > 0 && left < ttl {
		ttl = left
	}
	now := r.now()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		return
	}
	r.keys = keys
	r.expiresAt = now.Add(ttl)
	r.gen++
}

func (r *KeyResolver) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jwks fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("jwks fetch: unexpected status %d", resp.StatusCode)
	}
	doc, err := io.ReadAll(io.LimitReader(resp.Body, maxKeySetBytes))
	if err != nil {
		return nil, fmt.Errorf("jwks read: %w", err)
	}
	return doc, nil
}

// parseKeySet оставляет только публичные ключи подписи с kid; ключи, которые
// go-jose не смог разобрать, пропускаются.
func parseKeySet(doc []byte) (map[string]Key, error) {
	var raw struct {
		Keys []json.RawMessage `json:"keys"`
	}
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("jwks decode: %w", err)
	}
	keys := make(map[string]Key, len(raw.Keys))
	for _, item := range raw.Keys {
		var jwk jose.JSONWebKey
		if err := jwk.UnmarshalJSON(item); err != nil {
			continue
		}
		if jwk.KeyID == "" || !jwk.IsPublic() || !jwk.Valid() {
			continue
		}
		if jwk.Use != "" && jwk.Use != "sig" {
			continue
		}
		if _, dup := keys[jwk.KeyID]; dup {
			continue
		}
		keys[jwk.KeyID] = Key{ID: jwk.KeyID, Algorithm: jwk.Algorithm, Public: jwk.Key}
	}
	if len(keys) == 0 {
		return nil, errors.New("jwks contains no usable keys")
	}
	return keys, nil
}
