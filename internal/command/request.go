package command

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/util"
	"github.com/menna-app/menna-go/pkg/errors"
)

type RequestCommand struct {
	deps *Dependencies
}

func NewRequestCommand(deps *Dependencies) *RequestCommand {
	return &RequestCommand{deps: deps}
}

func (c *RequestCommand) Name() string {
	return "request"
}

func (c *RequestCommand) Description() string {
	return "Send a service request to the top providers"
}

func (c *RequestCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	if c.deps.Backend == nil {
		return fmt.Errorf("request command services not configured")
	}

	lead, ok := params["lead"].(*domain.LeadRequest)
	if !ok || lead == nil {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput("request category=ID city=ID"))
	}

	if c.deps.Catalog != nil {
		if err := c.deps.Catalog.ValidateLocation(lead.CityID, lead.AreaIDs); err != nil {
			return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput(err.Error()))
		}
		if c.deps.Catalog.Category(lead.CategoryID) == nil {
			return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput(fmt.Sprintf("unknown category %d", lead.CategoryID)))
		}
	}

	created, err := c.deps.Backend.CreateLead(ctx, lead)
	if err != nil {
		if errors.IsValidation(err) {
			return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput(err.Error()))
		}
		c.deps.logger().Warn("Failed to create lead",
			zap.Int64("category_id", lead.CategoryID),
			zap.Int64("city_id", lead.CityID),
			zap.String("area_ids", util.JoinIDs(lead.AreaIDs)),
			zap.Int("status", errors.StatusCode(err)),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatLeadFailed())
	}

	c.deps.logger().Info("Lead created", zap.Int64("lead_id", created.ID))
	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatLeadSubmitted(created))
}

type ReviewCommand struct {
	deps *Dependencies
}

func NewReviewCommand(deps *Dependencies) *ReviewCommand {
	return &ReviewCommand{deps: deps}
}

func (c *ReviewCommand) Name() string {
	return "review"
}

func (c *ReviewCommand) Description() string {
	return "Rate a provider for a completed request"
}

func (c *ReviewCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if err := c.deps.ensureOutput(); err != nil {
		return err
	}
	if c.deps.Backend == nil {
		return fmt.Errorf("review command services not configured")
	}

	review, ok := params["review"].(*domain.Review)
	if !ok || review == nil {
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput("review lead=ID provider=ID rating=1-5"))
	}

	created, err := c.deps.Backend.CreateReview(ctx, review)
	if err != nil {
		if errors.IsValidation(err) {
			return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatInvalidInput(err.Error()))
		}
		c.deps.logger().Warn("Failed to create review",
			zap.Int64("provider_id", review.ProviderID),
			zap.Int("status", errors.StatusCode(err)),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Session, c.deps.Formatter.FormatReviewFailed())
	}

	return c.deps.SendMessage(cmdCtx.Session, c.deps.Formatter.FormatReviewSubmitted(created))
}
