// Package datasource selects where directory data comes from: the live
// backend, the bundled fixtures, or live with a fixture fallback. The choice
// is made once at composition time.
package datasource

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/menna-app/menna-go/internal/api"
	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
)

// ProviderSource is the read side of the provider directory.
type ProviderSource interface {
	ListProviders(ctx context.Context, filter domain.ProviderFilter) ([]*domain.Provider, error)
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
}

// LeadInbox lists the leads waiting for the signed-in provider.
type LeadInbox interface {
	Inbox(ctx context.Context) ([]*domain.LeadRequest, error)
}

// FallbackObserver is told whenever fixture data replaces a failed live call.
type FallbackObserver interface {
	ObserveFallback(operation string)
}

// CacheObserver is told the result of every cache lookup.
type CacheObserver interface {
	ObserveCache(resource, result string)
}

// Live reads from the backend through the current API client. The client is
// swapped when the locale or credentials change.
type Live struct {
	client atomic.Pointer[api.Client]
}

func NewLive(client *api.Client) *Live {
	l := &Live{}
	l.client.Store(client)
	return l
}

func (l *Live) Client() *api.Client {
	return l.client.Load()
}

func (l *Live) SetClient(client *api.Client) {
	l.client.Store(client)
}

func (l *Live) ListProviders(ctx context.Context, filter domain.ProviderFilter) ([]*domain.Provider, error) {
	return l.Client().ListProviders(ctx, filter)
}

func (l *Live) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	return l.Client().GetProvider(ctx, id)
}

// Writes always go to the backend, whatever the read mode.

func (l *Live) CreateLead(ctx context.Context, lead *domain.LeadRequest) (*domain.LeadCreated, error) {
	return l.Client().CreateLead(ctx, lead)
}

func (l *Live) CreateReview(ctx context.Context, review *domain.Review) (*domain.ReviewCreated, error) {
	return l.Client().CreateReview(ctx, review)
}

func (l *Live) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	return l.Client().Login(ctx, email, password)
}

// Result is the outcome of one lookup in GetMany.
type Result struct {
	ID       int64
	Provider *domain.Provider
	Err      error
}

// GetMany fetches several providers concurrently with a bounded pool.
// Results keep the order of ids; a failed lookup does not cancel the others.
func GetMany(ctx context.Context, src ProviderSource, ids []int64) []Result {
	results := make([]Result, len(ids))
	if len(ids) == 0 {
		return results
	}

	p := pool.New().WithMaxGoroutines(constants.FanOutConfig.MaxGoroutines)
	var mu sync.Mutex

	for idx, id := range ids {
		idx, id := idx, id
		p.Go(func() {
			provider, err := src.GetProvider(ctx, id)
			mu.Lock()
			results[idx] = Result{ID: id, Provider: provider, Err: err}
			mu.Unlock()
		})
	}

	p.Wait()
	return results
}
