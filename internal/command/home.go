package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/domain"
)

const homeHighlights = 3

type HomeCommand struct {
	deps *Dependencies
}

func NewHomeCommand(deps *Dependencies) *HomeCommand {
	return &HomeCommand{deps: deps}
}

func (c *HomeCommand) Name() string {
	return "home"
}

func (c *HomeCommand) Description() string {
	return "Landing view with featured providers"
}

// Execute renders the landing view. A failed provider load still renders the
// hero section, only without highlights.
func (c *HomeCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	if c.deps.Providers == nil {
		return fmt.Errorf("home command services not configured")
	}

	providers, err := c.deps.Providers.ListProviders(ctx, domain.ProviderFilter{})
	if err != nil {
		c.deps.logger().Warn("Failed to load home highlights", zap.Error(err))
		providers = nil
	}
	if len(providers) > homeHighlights {
		providers = providers[:homeHighlights]
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatHome(providers))
}
