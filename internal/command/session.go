package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/locale"
	"github.com/menna-app/menna-go/pkg/errors"
)

type LoginCommand struct {
	deps *Dependencies
}

func NewLoginCommand(deps *Dependencies) *LoginCommand {
	return &LoginCommand{deps: deps}
}

func (c *LoginCommand) Name() string {
	return "login"
}

func (c *LoginCommand) Description() string {
	return "Sign in and attach the bearer token to later requests"
}

// Execute signs in. Every failure shows the same message; the cause is only
// logged, and never with the password.
func (c *LoginCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	if c.deps.Backend == nil {
		return fmt.Errorf("login command services not configured")
	}

	email, _ := params["email"].(string)
	password, _ := params["password"].(string)

	token, err := c.deps.Backend.Login(ctx, email, password)
	if err != nil {
		c.deps.logger().Warn("Login failed",
			zap.String("email", email),
			zap.Int("status", errors.StatusCode(err)),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatLoginResult(false))
	}

	if c.deps.OnLogin != nil {
		c.deps.OnLogin(token)
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatLoginResult(true))
}

type DashboardCommand struct {
	deps *Dependencies
}

func NewDashboardCommand(deps *Dependencies) *DashboardCommand {
	return &DashboardCommand{deps: deps}
}

func (c *DashboardCommand) Name() string {
	return "dashboard"
}

func (c *DashboardCommand) Description() string {
	return "Show leads waiting for the provider"
}

func (c *DashboardCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	if c.deps.Inbox == nil {
		return fmt.Errorf("dashboard command services not configured")
	}

	leads, err := c.deps.Inbox.Inbox(ctx)
	if err != nil {
		c.deps.logger().Warn("Failed to load inbox", zap.Error(err))
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatLoadFailed())
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatDashboard(leads))
}

type LocaleCommand struct {
	deps *Dependencies
}

func NewLocaleCommand(deps *Dependencies) *LocaleCommand {
	return &LocaleCommand{deps: deps}
}

func (c *LocaleCommand) Name() string {
	return "lang"
}

func (c *LocaleCommand) Description() string {
	return "Switch the interface language"
}

func (c *LocaleCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	lc := c.deps.Locale
	if lc == nil {
		var err error
		if lc, err = locale.FromContext(ctx); err != nil {
			return err
		}
	}

	code, _ := params["locale"].(string)
	if _, err := lc.SetCode(code); err != nil {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput(err.Error()))
	}
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatLocaleChanged())
}
