package datasource

import (
	"context"
	stderrors "errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/util"
	"github.com/menna-app/menna-go/pkg/errors"
)

// Fallback tries primary first and serves fixture data when it fails. A 404
// from primary is returned as is, and so is cancellation. With a breaker
// attached, primary is skipped while the breaker is open.
type Fallback struct {
	primary  ProviderSource
	fixture  ProviderSource
	observer FallbackObserver
	breaker  *util.CircuitBreaker
	logger   *zap.Logger
}

type FallbackOption func(*Fallback)

func WithBreaker(cb *util.CircuitBreaker) FallbackOption {
	return func(f *Fallback) {
		f.breaker = cb
	}
}

func NewFallback(primary, fixture ProviderSource, observer FallbackObserver, logger *zap.Logger, opts ...FallbackOption) *Fallback {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Fallback{
		primary:  primary,
		fixture:  fixture,
		observer: observer,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fallback) ListProviders(ctx context.Context, filter domain.ProviderFilter) ([]*domain.Provider, error) {
	if f.skipPrimary() {
		f.observe("list_providers")
		return f.fixture.ListProviders(ctx, filter)
	}

	providers, err := f.primary.ListProviders(ctx, filter)
	if err == nil {
		f.recordSuccess()
		return providers, nil
	}
	if !f.shouldFallBack(ctx, err) {
		return nil, err
	}

	f.recordFailure()
	f.logger.Warn("Serving fixture providers",
		zap.Error(err),
		zap.Bool("transport", errors.IsTransport(err)),
		zap.Bool("validation", errors.IsValidation(err)),
	)
	f.observe("list_providers")
	return f.fixture.ListProviders(ctx, filter)
}

func (f *Fallback) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	if f.skipPrimary() {
		f.observe("get_provider")
		return f.fixture.GetProvider(ctx, id)
	}

	provider, err := f.primary.GetProvider(ctx, id)
	if err == nil || errors.StatusCode(err) == http.StatusNotFound {
		f.recordSuccess()
		return provider, err
	}
	if !f.shouldFallBack(ctx, err) {
		return nil, err
	}

	f.recordFailure()
	f.logger.Warn("Serving fixture provider",
		zap.Error(err),
		zap.Int64("provider_id", id),
	)
	f.observe("get_provider")
	return f.fixture.GetProvider(ctx, id)
}

func (f *Fallback) shouldFallBack(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !stderrors.Is(err, context.Canceled) && !stderrors.Is(err, context.DeadlineExceeded)
}

func (f *Fallback) skipPrimary() bool {
	if f.breaker == nil || f.breaker.CanExecute() {
		return false
	}
	f.logger.Debug("Live source circuit open, using fixtures")
	return true
}

func (f *Fallback) recordSuccess() {
	if f.breaker != nil {
		f.breaker.RecordSuccess()
	}
}

func (f *Fallback) recordFailure() {
	if f.breaker != nil {
		f.breaker.RecordFailure()
	}
}

func (f *Fallback) observe(operation string) {
	if f.observer != nil {
		f.observer.ObserveFallback(operation)
	}
}
