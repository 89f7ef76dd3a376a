package datasource

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"path"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/util"
	"github.com/menna-app/menna-go/pkg/errors"
)

type fakeSource struct {
	listErr   error
	getErr    error
	providers []*domain.Provider
	listCalls atomic.Int32
	getCalls  atomic.Int32
}

func (f *fakeSource) ListProviders(_ context.Context, _ domain.ProviderFilter) ([]*domain.Provider, error) {
	f.listCalls.Add(1)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.providers, nil
}

func (f *fakeSource) GetProvider(_ context.Context, id int64) (*domain.Provider, error) {
	f.getCalls.Add(1)
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, p := range f.providers {
		if p.IDValue() == id {
			return p, nil
		}
	}
	return nil, errors.NewNotFoundError("provider", "fake")
}

type memoryStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (s *memoryStore) Key(parts ...string) string {
	key := "test"
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

func (s *memoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return false, s.getErr
	}
	data, ok := s.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (s *memoryStore) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.data[key] = data
	s.ttls[key] = ttl
	return nil
}

type patternStore struct {
	*memoryStore
}

func (s patternStore) DelPattern(_ context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for key := range s.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.data, key)
			n++
		}
	}
	return n, nil
}

type fallbackCounter struct {
	ops []string
}

func (c *fallbackCounter) ObserveFallback(op string) {
	c.ops = append(c.ops, op)
}

type cacheCounter struct {
	results []string
}

func (c *cacheCounter) ObserveCache(resource, result string) {
	c.results = append(c.results, resource+":"+result)
}

func provider(id int64, rating float64) *domain.Provider {
	return &domain.Provider{ID: domain.Int64Ptr(id), Name: "p", Rating: rating, CityID: 1}
}

func TestFixtureLoads(t *testing.T) {
	fx, err := LoadFixture()
	require.NoError(t, err)

	all, err := fx.ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)

	inbox, err := fx.Inbox(context.Background())
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "تصليح ماس كهربائي", inbox[0].Description)
	require.NotNil(t, inbox[0].PreferredTime)
}

func TestFixtureFilters(t *testing.T) {
	fx, err := LoadFixture()
	require.NoError(t, err)
	ctx := context.Background()

	verified, err := fx.ListProviders(ctx, domain.ProviderFilter{Verified: domain.BoolPtr(true)})
	require.NoError(t, err)
	assert.Len(t, verified, 2)

	plumbers, err := fx.ListProviders(ctx, domain.ProviderFilter{CategoryID: domain.Int64Ptr(2)})
	require.NoError(t, err)
	require.Len(t, plumbers, 1)
	assert.Equal(t, int64(3), plumbers[0].IDValue())

	english, err := fx.ListProviders(ctx, domain.ProviderFilter{Language: "en", Sort: "rating"})
	require.NoError(t, err)
	require.Len(t, english, 2)
	assert.Equal(t, int64(1), english[0].IDValue())

	_, err = fx.GetProvider(ctx, 999)
	assert.True(t, errors.IsNotFound(err))
}

func TestParseFixtureRejectsInvalid(t *testing.T) {
	_, err := ParseFixture([]byte(`{"providers": [{"name": "x"}], "inbox": []}`))
	assert.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestFallbackServesFixtureOnFailure(t *testing.T) {
	fx, err := LoadFixture()
	require.NoError(t, err)

	live := &fakeSource{listErr: errors.NewTransportError("down", 503, "http://x/providers", nil)}
	obs := &fallbackCounter{}
	src := NewFallback(live, fx, obs, zap.NewNop())

	providers, err := src.ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)
	assert.Len(t, providers, 3)
	assert.Equal(t, []string{"list_providers"}, obs.ops)

	live.listErr = errors.NewValidationError("bad", "[0].name", nil)
	providers, err = src.ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)
	assert.Len(t, providers, 3)
}

func TestFallbackPrefersLive(t *testing.T) {
	fx, err := LoadFixture()
	require.NoError(t, err)

	live := &fakeSource{providers: []*domain.Provider{provider(10, 3)}}
	src := NewFallback(live, fx, nil, nil)

	providers, err := src.ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, int64(10), providers[0].IDValue())
}

func TestFallbackKeepsNotFoundAndCancellation(t *testing.T) {
	fx, err := LoadFixture()
	require.NoError(t, err)

	live := &fakeSource{}
	src := NewFallback(live, fx, nil, zap.NewNop())

	p, err := src.GetProvider(context.Background(), 1)
	assert.Nil(t, p)
	assert.True(t, errors.IsNotFound(err), "a live 404 must not be masked by fixture data")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	live.listErr = errors.NewTransportError("request failed", 0, "http://x", nil).WithCause(context.Canceled)
	_, err = src.ListProviders(ctx, domain.ProviderFilter{})
	assert.ErrorIs(t, err, context.Canceled)

	live.getErr = errors.NewTransportError("down", 502, "http://x", nil)
	p, err = src.GetProvider(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.IDValue())

	live.getErr = errors.NewNotFoundError("provider", "http://x/providers/3").WithStatus(500)
	p, err = src.GetProvider(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.IDValue())
}

func TestFallbackOverCachedLiveRecovers(t *testing.T) {
	fx, err := LoadFixture()
	require.NoError(t, err)

	outage := errors.NewTransportError("down", 503, "http://x/providers", nil)
	live := &fakeSource{listErr: outage, getErr: outage, providers: []*domain.Provider{provider(10, 3)}}
	store := newMemoryStore()
	cached := NewCached(live, store, func() domain.Locale { return domain.LocaleEnglish }, zap.NewNop())
	src := NewFallback(cached, fx, nil, zap.NewNop())
	ctx := context.Background()

	providers, err := src.ListProviders(ctx, domain.ProviderFilter{})
	require.NoError(t, err)
	assert.Len(t, providers, 3)
	_, err = src.GetProvider(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, store.data, "fixture data must not be cached")

	live.listErr = nil
	live.getErr = nil
	providers, err = src.ListProviders(ctx, domain.ProviderFilter{})
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, int64(10), providers[0].IDValue())
	assert.Equal(t, int32(2), live.listCalls.Load())

	live.listErr = outage
	providers, err = src.ListProviders(ctx, domain.ProviderFilter{})
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, int64(10), providers[0].IDValue())
	assert.Equal(t, int32(2), live.listCalls.Load())
}

func TestCachedHitsStore(t *testing.T) {
	inner := &fakeSource{providers: []*domain.Provider{provider(1, 4.5)}}
	store := newMemoryStore()
	obs := &cacheCounter{}
	locale := domain.LocaleArabic
	src := NewCached(inner, store, func() domain.Locale { return locale }, zap.NewNop(), WithCacheObserver(obs))
	ctx := context.Background()
	filter := domain.ProviderFilter{Verified: domain.BoolPtr(true)}

	for i := 0; i < 2; i++ {
		providers, err := src.ListProviders(ctx, filter)
		require.NoError(t, err)
		require.Len(t, providers, 1)
		assert.Equal(t, 4.5, providers[0].Rating)
	}
	assert.Equal(t, int32(1), inner.listCalls.Load())
	assert.Equal(t, []string{"providers:miss", "providers:hit"}, obs.results)
	assert.Contains(t, store.data, "test:providers:ar:verified=true")

	locale = domain.LocaleHebrew
	_, err := src.ListProviders(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.listCalls.Load(), "locale is part of the key")

	p, err := src.GetProvider(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.IDValue())
	_, err = src.GetProvider(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(1), inner.getCalls.Load())
}

func TestCachedDoesNotStoreErrors(t *testing.T) {
	inner := &fakeSource{}
	store := newMemoryStore()
	src := NewCached(inner, store, func() domain.Locale { return domain.LocaleEnglish }, nil, WithTTL(time.Second))

	_, err := src.GetProvider(context.Background(), 5)
	assert.True(t, errors.IsNotFound(err))
	assert.Empty(t, store.data)

	inner.providers = []*domain.Provider{provider(5, 1)}
	_, err = src.GetProvider(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, time.Second, store.ttls["test:provider:en:5"])
}

func TestCachedBypassesBrokenStore(t *testing.T) {
	inner := &fakeSource{providers: []*domain.Provider{provider(1, 4)}}
	store := newMemoryStore()
	store.getErr = stderrors.New("redis down")
	src := NewCached(inner, store, func() domain.Locale { return domain.LocaleArabic }, zap.NewNop())

	providers, err := src.ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)
	assert.Len(t, providers, 1)
}

func TestGetManyKeepsOrder(t *testing.T) {
	inner := &fakeSource{providers: []*domain.Provider{provider(1, 1), provider(2, 2), provider(3, 3)}}

	results := GetMany(context.Background(), inner, []int64{3, 99, 1, 2})
	require.Len(t, results, 4)
	assert.Equal(t, int64(3), results[0].Provider.IDValue())
	assert.Nil(t, results[1].Provider)
	assert.True(t, errors.IsNotFound(results[1].Err))
	assert.Equal(t, int64(1), results[2].Provider.IDValue())
	assert.Equal(t, int64(2), results[3].Provider.IDValue())

	assert.Empty(t, GetMany(context.Background(), inner, nil))
}

func TestFallbackBreakerSkipsLive(t *testing.T) {
	fx, err := LoadFixture()
	require.NoError(t, err)

	live := &fakeSource{listErr: errors.NewTransportError("down", 503, "http://x/providers", nil)}
	cb := util.NewCircuitBreaker(2, time.Hour, zap.NewNop())
	src := NewFallback(live, fx, nil, zap.NewNop(), WithBreaker(cb))

	for i := 0; i < 4; i++ {
		providers, err := src.ListProviders(context.Background(), domain.ProviderFilter{})
		require.NoError(t, err)
		assert.Len(t, providers, 3)
	}
	assert.Equal(t, int32(2), live.listCalls.Load())
	assert.Equal(t, util.CircuitStateOpen, cb.GetState())
}

func TestCachedInvalidate(t *testing.T) {
	inner := &fakeSource{providers: []*domain.Provider{provider(1, 4.5), provider(2, 3)}}
	store := patternStore{newMemoryStore()}
	src := NewCached(inner, store, func() domain.Locale { return domain.LocaleArabic }, nil)
	ctx := context.Background()

	_, err := src.ListProviders(ctx, domain.ProviderFilter{})
	require.NoError(t, err)
	_, err = src.GetProvider(ctx, 1)
	require.NoError(t, err)
	_, err = src.GetProvider(ctx, 2)
	require.NoError(t, err)
	require.Len(t, store.data, 3)

	src.Invalidate(ctx, 1)
	assert.Len(t, store.data, 1)
	assert.Contains(t, store.data, "test:provider:ar:2")

	NewCached(inner, newMemoryStore(), func() domain.Locale { return domain.LocaleArabic }, nil).Invalidate(ctx, 1)
}
