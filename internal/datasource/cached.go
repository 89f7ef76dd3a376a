package datasource

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
)

// Store is the subset of the Redis cache the directory needs.
type Store interface {
	Key(parts ...string) string
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Cached memoizes successful reads of inner. Keys include the locale because
// the backend may localize responses by Accept-Language. Cache failures are
// logged and bypassed.
type Cached struct {
	inner    ProviderSource
	store    Store
	locale   func() domain.Locale
	listTTL  time.Duration
	itemTTL  time.Duration
	observer CacheObserver
	logger   *zap.Logger
}

// Invalidator is implemented by stores that can drop keys by glob pattern.
type Invalidator interface {
	DelPattern(ctx context.Context, pattern string) (int64, error)
}

type CachedOption func(*Cached)

// WithTTL overrides both list and item TTLs.
func WithTTL(ttl time.Duration) CachedOption {
	return func(c *Cached) {
		if ttl > 0 {
			c.listTTL = ttl
			c.itemTTL = ttl
		}
	}
}

func WithCacheObserver(o CacheObserver) CachedOption {
	return func(c *Cached) {
		c.observer = o
	}
}

func NewCached(inner ProviderSource, store Store, locale func() domain.Locale, logger *zap.Logger, opts ...CachedOption) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Cached{
		inner:   inner,
		store:   store,
		locale:  locale,
		listTTL: constants.CacheTTL.ProviderList,
		itemTTL: constants.CacheTTL.Provider,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cached) ListProviders(ctx context.Context, filter domain.ProviderFilter) ([]*domain.Provider, error) {
	key := c.store.Key("providers", c.locale().String(), filter.Query().Encode())

	var cached []*domain.Provider
	if c.lookup(ctx, "providers", key, &cached) {
		return cached, nil
	}

	providers, err := c.inner.ListProviders(ctx, filter)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, providers, c.listTTL)
	return providers, nil
}

func (c *Cached) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	key := c.store.Key("provider", c.locale().String(), strconv.FormatInt(id, 10))

	var cached domain.Provider
	if c.lookup(ctx, "provider", key, &cached) {
		return &cached, nil
	}

	provider, err := c.inner.GetProvider(ctx, id)
	if err != nil {
		return nil, err
	}
	c.save(ctx, key, provider, c.itemTTL)
	return provider, nil
}

// Invalidate drops every cached listing and the given provider in all
// locales. Stores without pattern deletes are left alone.
func (c *Cached) Invalidate(ctx context.Context, providerID int64) {
	inv, ok := c.store.(Invalidator)
	if !ok {
		return
	}
	patterns := []string{
		c.store.Key("providers", "*"),
		c.store.Key("provider", "*", strconv.FormatInt(providerID, 10)),
	}
	for _, pattern := range patterns {
		n, err := inv.DelPattern(ctx, pattern)
		if err != nil {
			c.logger.Warn("Cache invalidation failed", zap.String("pattern", pattern), zap.Error(err))
			continue
		}
		c.logger.Debug("Cache invalidated", zap.String("pattern", pattern), zap.Int64("deleted", n))
	}
}

func (c *Cached) lookup(ctx context.Context, resource, key string, dest any) bool {
	hit, err := c.store.Get(ctx, key, dest)
	switch {
	case err != nil:
		c.logger.Warn("Cache read failed, bypassing", zap.String("key", key), zap.Error(err))
		c.observe(resource, "error")
		return false
	case hit:
		c.logger.Debug("Cache hit", zap.String("key", key))
		c.observe(resource, "hit")
		return true
	default:
		c.observe(resource, "miss")
		return false
	}
}

func (c *Cached) save(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := c.store.Set(ctx, key, value, ttl); err != nil {
		c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *Cached) observe(resource, result string) {
	if c.observer != nil {
		c.observer.ObserveCache(resource, result)
	}
}
