package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/adapter"
	"github.com/menna-app/menna-go/internal/datasource"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/locale"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// Backend is the write side of the marketplace API.
type Backend interface {
	CreateLead(ctx context.Context, lead *domain.LeadRequest) (*domain.LeadCreated, error)
	CreateReview(ctx context.Context, review *domain.Review) (*domain.ReviewCreated, error)
	Login(ctx context.Context, email, password string) (*domain.TokenResponse, error)
}

type Dependencies struct {
	Providers   datasource.ProviderSource
	Inbox       datasource.LeadInbox
	Backend     Backend
	Catalog     *domain.Catalog
	Locale      *locale.Context
	Formatter   *adapter.ResponseFormatter
	OnLogin     func(token *domain.TokenResponse)
	SendMessage func(session, message string) error
	SendError   func(session, message string) error
	Logger      *zap.Logger
}

func (d *Dependencies) ensureOutput() error {
	if d == nil {
		return fmt.Errorf("command dependencies not configured")
	}
	if d.SendMessage == nil || d.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if d.Formatter == nil {
		return fmt.Errorf("formatter not configured")
	}
	return nil
}

func (d *Dependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// RegisterAll registers every shell command on r.
func RegisterAll(r *Registry, deps *Dependencies) {
	r.Register(NewHomeCommand(deps))
	r.Register(NewProvidersCommand(deps))
	r.Register(NewProviderCommand(deps))
	r.Register(NewRequestCommand(deps))
	r.Register(NewReviewCommand(deps))
	r.Register(NewLoginCommand(deps))
	r.Register(NewDashboardCommand(deps))
	r.Register(NewLocaleCommand(deps))
	r.Register(NewCatalogCommand(deps))
	r.Register(NewHelpCommand(deps))
}
