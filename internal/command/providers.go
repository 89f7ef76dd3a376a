package command

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/datasource"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/pkg/errors"
)

type ProvidersCommand struct {
	deps *Dependencies
}

func NewProvidersCommand(deps *Dependencies) *ProvidersCommand {
	return &ProvidersCommand{deps: deps}
}

func (c *ProvidersCommand) Name() string {
	return "providers"
}

func (c *ProvidersCommand) Description() string {
	return "List providers with optional filters"
}

func (c *ProvidersCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.ensureDeps(); err != nil {
		return err
	}

	filter, _ := params["filter"].(domain.ProviderFilter)
	c.deps.logger().Debug("Listing providers",
		zap.String("session", cmdCtx.Session),
		zap.Bool("filtered", !filter.IsEmpty()),
	)

	providers, err := c.deps.Providers.ListProviders(ctx, filter)
	if err != nil {
		c.deps.logger().Warn("Failed to list providers",
			zap.String("query", filter.Query().Encode()),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatLoadFailed())
	}

	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatProviderList(providers))
}

func (c *ProvidersCommand) ensureDeps() error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	if c.deps.Providers == nil {
		return fmt.Errorf("providers command services not configured")
	}
	return nil
}

type ProviderCommand struct {
	deps *Dependencies
}

func NewProviderCommand(deps *Dependencies) *ProviderCommand {
	return &ProviderCommand{deps: deps}
}

func (c *ProviderCommand) Name() string {
	return "provider"
}

func (c *ProviderCommand) Description() string {
	return "Show one or more provider profiles"
}

// Execute shows each requested profile. Several ids are fetched concurrently
// and rendered in the order given.
func (c *ProviderCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.ensureDeps(); err != nil {
		return err
	}

	ids, _ := params["ids"].([]int64)
	if len(ids) == 0 {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput("provider ID [ID...]"))
	}

	results := datasource.GetMany(ctx, c.deps.Providers, ids)

	sections := make([]string, 0, len(results))
	failed := 0
	for _, res := range results {
		switch {
		case res.Err == nil:
			sections = append(sections, c.deps.Formatter.FormatProvider(res.Provider))
		case errors.IsNotFound(res.Err):
			failed++
			sections = append(sections, c.deps.Formatter.FormatProviderNotFound(res.ID))
		default:
			failed++
			c.deps.logger().Warn("Failed to load provider",
				zap.Int64("provider_id", res.ID),
				zap.Error(res.Err),
			)
			sections = append(sections, c.deps.Formatter.FormatLoadFailed())
		}
	}

	message := strings.Join(sections, "\n\n")
	if failed == len(results) {
		return c.deps.SendError(cmdCtx.Session, message)
	}
	return c.deps.SendMessage(cmdCtx.Session, message)
}

func (c *ProviderCommand) ensureDeps() error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	if c.deps.Providers == nil {
		return fmt.Errorf("provider command services not configured")
	}
	return nil
}
