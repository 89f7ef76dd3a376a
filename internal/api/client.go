package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/schema"
	"github.com/menna-app/menna-go/pkg/errors"
)

// Observer receives one call per completed round trip. status is 0 when no
// response was received.
type Observer interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

type Client struct {
	baseURL    string
	locale     domain.Locale
	token      string
	httpClient *http.Client
	validator  *schema.Validator
	observer   Observer
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds each round trip. Zero leaves requests unbounded; callers
// cancel through the context instead.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

func WithValidator(v *schema.Validator) Option {
	return func(c *Client) {
		if v != nil {
			c.validator = v
		}
	}
}

// NewClient creates a client bound to locale. An empty baseURL falls back to
// the local development backend.
func NewClient(baseURL string, locale domain.Locale, logger *zap.Logger, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = constants.APIConfig.DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL:    baseURL,
		locale:     locale,
		httpClient: &http.Client{},
		validator:  schema.Default(),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Locale() domain.Locale {
	return c.locale
}

// WithLocale returns a copy that sends l as Accept-Language.
func (c *Client) WithLocale(l domain.Locale) *Client {
	clone := *c
	clone.locale = l
	return &clone
}

// WithToken returns a copy that authenticates with token. An empty token
// drops the Authorization header.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

func (c *Client) HasToken() bool {
	return c.token != ""
}

// ListProviders fetches the directory. Only set filters are sent; an empty
// filter produces a bare /providers request.
func (c *Client) ListProviders(ctx context.Context, filter domain.ProviderFilter) ([]*domain.Provider, error) {
	body, err := c.doRequest(ctx, http.MethodGet, constants.APIConfig.ProvidersPath, constants.APIConfig.ProvidersPath, filter.Query(), nil)
	if err != nil {
		c.logger.Error("Failed to list providers",
			zap.Error(err),
			zap.Any("filter", filter.Query()),
		)
		return nil, err
	}

	providers, err := c.validator.ParseProviders(body)
	if err != nil {
		c.logger.Error("Provider list failed validation", zap.Error(err))
		return nil, err
	}
	return providers, nil
}

// GetProvider fetches one provider. Any non-success status yields
// *errors.NotFoundError carrying the real status, and a nil provider.
// Failures with no response at all stay plain transport errors.
func (c *Client) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	path := constants.APIConfig.ProvidersPath + "/" + strconv.FormatInt(id, 10)
	body, err := c.doRequest(ctx, http.MethodGet, path, constants.APIConfig.ProvidersPath+"/{id}", nil, nil)
	if err != nil {
		status := errors.StatusCode(err)
		if status != http.StatusNotFound {
			c.logger.Error("Failed to get provider", zap.Error(err), zap.Int64("provider_id", id), zap.Int("status", status))
		}
		if status == 0 {
			return nil, err
		}
		return nil, errors.NewNotFoundError("provider", c.baseURL+path).WithStatus(status).WithCause(err)
	}

	provider, err := c.validator.ParseProvider(body)
	if err != nil {
		c.logger.Error("Provider failed validation", zap.Error(err), zap.Int64("provider_id", id))
		return nil, err
	}
	return provider, nil
}

// CreateLead validates and submits a lead and returns the server-assigned id.
func (c *Client) CreateLead(ctx context.Context, lead *domain.LeadRequest) (*domain.LeadCreated, error) {
	if err := c.validator.ValidateLeadRequest(lead); err != nil {
		return nil, err
	}

	// area_ids is always sent as an array, never null.
	payload := *lead
	if payload.AreaIDs == nil {
		payload.AreaIDs = []int64{}
	}

	body, err := c.doRequest(ctx, http.MethodPost, constants.APIConfig.LeadsPath, constants.APIConfig.LeadsPath, nil, &payload)
	if err != nil {
		c.logger.Error("Failed to create lead",
			zap.Error(err),
			zap.Int64("category_id", lead.CategoryID),
			zap.Int64("city_id", lead.CityID),
		)
		return nil, err
	}
	return c.validator.ParseLeadCreated(body)
}

// CreateReview validates and submits a review. The response body shape is
// server-defined; the id is extracted when present.
func (c *Client) CreateReview(ctx context.Context, review *domain.Review) (*domain.ReviewCreated, error) {
	if err := c.validator.ValidateReview(review); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, constants.APIConfig.ReviewsPath, constants.APIConfig.ReviewsPath, nil, review)
	if err != nil {
		c.logger.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("provider_id", review.ProviderID),
		)
		return nil, err
	}
	return c.validator.ParseReviewCreated(body), nil
}

// Login exchanges credentials for a token pair. Any non-2xx is a
// TransportError; callers show a single failure message for all of them.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.TokenResponse, error) {
	req := &domain.LoginRequest{Email: email, Password: password}
	if err := c.validator.ValidateLogin(req); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, constants.APIConfig.LoginPath, constants.APIConfig.LoginPath, nil, req)
	if err != nil {
		c.logger.Warn("Login failed", zap.Error(err), zap.Int("status", errors.StatusCode(err)))
		return nil, err
	}
	return c.validator.ParseToken(body)
}

// doRequest performs one round trip and returns the raw body of a 2xx
// response. route is the path template reported to the observer.
func (c *Client) doRequest(ctx context.Context, method, path, route string, query url.Values, reqBody any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, errors.NewTransportError("failed to marshal request", 0, target, nil).WithCause(err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, errors.NewTransportError("failed to create request", 0, target, nil).WithCause(err)
	}

	requestID := uuid.NewString()
	req.Header.Set(constants.Headers.ContentType, constants.Headers.JSON)
	req.Header.Set(constants.Headers.AcceptLanguage, c.locale.String())
	req.Header.Set(constants.Headers.RequestID, requestID)
	if c.token != "" {
		req.Header.Set(constants.Headers.Authorization, "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, route, 0, start)
		return nil, errors.NewTransportError("request failed", 0, target, map[string]any{
			"request_id": requestID,
		}).WithCause(err)
	}
	defer resp.Body.Close()
	c.observe(method, route, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, constants.APIConfig.MaxErrorBody))
		return nil, errors.NewTransportError(
			fmt.Sprintf("Menna API error: %s", resp.Status),
			resp.StatusCode,
			target,
			map[string]any{
				"request_id": requestID,
				"body":       string(bodyBytes),
			},
		)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewTransportError("failed to read response", resp.StatusCode, target, nil).WithCause(err)
	}
	return bodyBytes, nil
}

func (c *Client) observe(method, route string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, route, status, time.Since(start))
	}
}
