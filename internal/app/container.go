package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/adapter"
	"github.com/menna-app/menna-go/internal/api"
	"github.com/menna-app/menna-go/internal/cache"
	"github.com/menna-app/menna-go/internal/command"
	"github.com/menna-app/menna-go/internal/config"
	"github.com/menna-app/menna-go/internal/datasource"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/locale"
	"github.com/menna-app/menna-go/internal/metrics"
	"github.com/menna-app/menna-go/internal/util"
)

// Container bundles the assembled services behind the shell.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Locale     *locale.Context
	Catalog    *domain.Catalog
	Live       *datasource.Live
	Providers  datasource.ProviderSource
	Metrics    *metrics.Metrics
	Formatter  *adapter.ResponseFormatter
	Messages   *adapter.MessageAdapter
	Registry   *command.Registry
	Dispatcher command.Dispatcher

	cached  *datasource.Cached
	closers []func()

	outMu sync.Mutex
	out   io.Writer
}

// Build assembles every service from cfg. The data source mode is fixed here
// for the life of the container.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c := &Container{Config: cfg, Logger: logger, out: io.Discard}
	defer func() {
		if err != nil {
			c.Close()
		}
	}()

	// Locale and static data
	c.Locale, err = locale.New(cfg.Locale.Default)
	if err != nil {
		return nil, fmt.Errorf("failed to load locale tables: %w", err)
	}
	c.Catalog, err = domain.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	fixture, err := datasource.LoadFixture()
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	// API client
	c.Metrics = metrics.NewMetrics("client").WithRuntimeCollectors()
	opts := []api.Option{api.WithObserver(c.Metrics)}
	if cfg.API.Timeout > 0 {
		opts = append(opts, api.WithTimeout(cfg.API.Timeout))
	}
	if cfg.API.Token != "" {
		opts = append(opts, api.WithBearerToken(cfg.API.Token))
	}
	c.Live = datasource.NewLive(api.NewClient(cfg.API.BaseURL, c.Locale.Locale(), logger, opts...))

	c.Locale.OnChange(func(st locale.State) {
		c.Live.SetClient(c.Live.Client().WithLocale(st.Locale))
		logger.Info("Locale changed",
			zap.String("locale", st.Locale.String()),
			zap.String("direction", st.Direction.String()),
		)
	})

	// Data source. The cache only ever wraps the live backend so fixture
	// data served during an outage is never stored under live keys.
	var live datasource.ProviderSource = c.Live
	if cfg.Redis.Enabled && cfg.Data.Source != config.DataSourceFixture {
		cacheSvc, cacheErr := cache.NewService(ctx, cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		c.closers = append(c.closers, func() {
			_ = cacheSvc.Close()
		})
		c.cached = datasource.NewCached(c.Live, cacheSvc, c.Locale.Locale, logger,
			datasource.WithTTL(cfg.Redis.TTL),
			datasource.WithCacheObserver(c.Metrics),
		)
		live = c.cached
	}

	switch cfg.Data.Source {
	case config.DataSourceLive:
		c.Providers = live
	case config.DataSourceFixture:
		c.Providers = fixture
	default:
		var fallbackOpts []datasource.FallbackOption
		if cfg.Data.FailureThreshold > 0 {
			breaker := util.NewCircuitBreaker(cfg.Data.FailureThreshold, cfg.Data.Cooldown, logger)
			fallbackOpts = append(fallbackOpts, datasource.WithBreaker(breaker))
		}
		c.Providers = datasource.NewFallback(live, fixture, c.Metrics, logger, fallbackOpts...)
	}

	logger.Info("Data source ready",
		zap.String("mode", string(cfg.Data.Source)),
		zap.Bool("cache", c.cached != nil),
		zap.Bool("authenticated", c.Live.Client().HasToken()),
		zap.String("base_url", c.Live.Client().BaseURL()),
	)

	// Commands
	c.Formatter = adapter.NewResponseFormatter(c.Locale, c.Catalog)
	c.Messages = adapter.NewMessageAdapter("")
	c.Registry = command.NewRegistry()
	command.RegisterAll(c.Registry, &command.Dependencies{
		Providers:   c.Providers,
		Inbox:       fixture,
		Backend:     &backend{live: c.Live, cached: c.cached},
		Catalog:     c.Catalog,
		Locale:      c.Locale,
		Formatter:   c.Formatter,
		OnLogin:     c.onLogin,
		SendMessage: c.write,
		SendError:   c.write,
		Logger:      logger,
	})
	c.Dispatcher = command.NewSequentialDispatcher(c.Registry, command.DefaultNormalize)

	return c, nil
}

// Close releases resources in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

func (c *Container) onLogin(token *domain.TokenResponse) {
	c.Live.SetClient(c.Live.Client().WithToken(token.AccessToken))
	c.Logger.Info("Bearer token attached")
}

func (c *Container) setOutput(w io.Writer) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	c.out = w
}

func (c *Container) write(_ string, message string) error {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	_, err := fmt.Fprintln(c.out, message)
	return err
}

// backend sends writes to the live client and drops cached provider data a
// new review makes stale.
type backend struct {
	live   *datasource.Live
	cached *datasource.Cached
}

func (b *backend) CreateLead(ctx context.Context, lead *domain.LeadRequest) (*domain.LeadCreated, error) {
	return b.live.CreateLead(ctx, lead)
}

func (b *backend) CreateReview(ctx context.Context, review *domain.Review) (*domain.ReviewCreated, error) {
	created, err := b.live.CreateReview(ctx, review)
	if err == nil && b.cached != nil {
		b.cached.Invalidate(ctx, review.ProviderID)
	}
	return created, err
}

func (b *backend) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	return b.live.Login(ctx, email, password)
}
