package command

import (
	"context"

	"github.com/menna-app/menna-go/internal/domain"
)

type HelpCommand struct {
	deps *Dependencies
}

func NewHelpCommand(deps *Dependencies) *HelpCommand {
	return &HelpCommand{deps: deps}
}

func (c *HelpCommand) Name() string {
	return "help"
}

func (c *HelpCommand) Description() string {
	return "List the shell commands"
}

func (c *HelpCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatHelp())
}

type CatalogCommand struct {
	deps *Dependencies
}

func NewCatalogCommand(deps *Dependencies) *CatalogCommand {
	return &CatalogCommand{deps: deps}
}

func (c *CatalogCommand) Name() string {
	return "catalog"
}

func (c *CatalogCommand) Description() string {
	return "Show category, city and area ids"
}

func (c *CatalogCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatCatalog())
}
