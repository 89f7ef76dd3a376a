package stub

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/internal/metrics"
	"github.com/menna-app/menna-go/internal/schema"
	"github.com/menna-app/menna-go/internal/util"
	"github.com/menna-app/menna-go/pkg/errors"
)

// Server serves the marketplace endpoints from a Store.
type Server struct {
	store   *Store
	tokens  *TokenIssuer
	hasher  *PasswordHasher
	limiter *LoginLimiter
	metrics *metrics.Metrics
	logger  *zap.Logger
	engine  *gin.Engine
}

type Option func(*Server)

func WithPasswordHasher(h *PasswordHasher) Option {
	return func(s *Server) {
		s.hasher = h
	}
}

func WithLoginLimiter(l *LoginLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func NewServer(store *Store, tokens *TokenIssuer, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		store:   store,
		tokens:  tokens,
		hasher:  DefaultPasswordHasher(),
		limiter: NewLoginLimiter(constants.StubAuth.LoginAttempts, constants.StubAuth.LoginWindow),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	if s.metrics != nil {
		engine.Use(s.metrics.GinMiddleware())
	}
	engine.Use(s.requestLogger())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET(constants.APIConfig.ProvidersPath, s.listProviders)
	engine.GET(constants.APIConfig.ProvidersPath+"/:id", s.getProvider)
	engine.POST(constants.APIConfig.LeadsPath, s.createLead)
	engine.POST(constants.APIConfig.ReviewsPath, s.createReview)
	engine.POST("/auth/register", s.register)
	engine.POST(constants.APIConfig.LoginPath, s.login)
	engine.POST("/auth/refresh", s.refresh)
	return engine
}

// Handler returns the router for use with net/http or httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Stub backend listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// RegisterUser hashes password and adds the account.
func (s *Server) RegisterUser(email, password string) (int64, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	return s.store.AddUser(email, hash)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("Stub request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("request_id", c.GetHeader(constants.Headers.RequestID)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) listProviders(c *gin.Context) {
	filter, err := parseProviderFilter(c)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.store.ListProviders(filter))
}

func (s *Server) getProvider(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "provider id must be an integer"})
		return
	}
	provider, err := s.store.GetProvider(id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (s *Server) createLead(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read body"})
		return
	}
	lead, err := schema.ParseLeadRequest(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	id, err := s.store.CreateLead(lead)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.logger.Info("Lead created",
		zap.Int64("lead_id", id),
		zap.Int64("category_id", lead.CategoryID),
		zap.Int64("city_id", lead.CityID),
	)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func (s *Server) createReview(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "could not read body"})
		return
	}
	review, err := schema.ParseReview(body)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	id, err := s.store.CreateReview(review)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) bindCredentials(c *gin.Context) (*domain.LoginRequest, bool) {
	var body credentials
	raw, err := c.GetRawData()
	if err == nil {
		err = json.Unmarshal(raw, &body)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "body must be a JSON object with email and password"})
		return nil, false
	}
	req := &domain.LoginRequest{Email: body.Email, Password: body.Password}
	if err := schema.ValidateLogin(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return nil, false
	}
	return req, true
}

func (s *Server) register(c *gin.Context) {
	req, ok := s.bindCredentials(c)
	if !ok {
		return
	}
	id, err := s.RegisterUser(req.Email, req.Password)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.issue(c, id)
}

// login applies the per-email attempt limit before checking the password.
// Unknown emails and wrong passwords get the same answer.
func (s *Server) login(c *gin.Context) {
	req, ok := s.bindCredentials(c)
	if !ok {
		return
	}

	if !s.limiter.Allow("login:" + normalizeEmail(req.Email)) {
		s.logger.Warn("Login rate limit exceeded", zap.String("email", req.Email))
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "Too many attempts"})
		return
	}

	u, found := s.store.userByEmail(req.Email)
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials"})
		return
	}
	valid, err := s.hasher.Verify(req.Password, u.PasswordHash)
	if err != nil {
		s.logger.Error("Stored password hash is unreadable", zap.Int64("user_id", u.ID), zap.Error(err))
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid credentials"})
		return
	}
	s.issue(c, u.ID)
}

func (s *Server) refresh(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if raw, err := c.GetRawData(); err == nil && len(raw) > 0 {
			_ = json.Unmarshal(raw, &body)
		}
		token = body.RefreshToken
	}

	id, err := s.tokens.Subject(token, tokenTypeRefresh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid token"})
		return
	}
	if _, ok := s.store.userByID(id); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "User not found"})
		return
	}
	s.issue(c, id)
}

func (s *Server) issue(c *gin.Context, userID int64) {
	pair, err := s.tokens.Issue(userID)
	if err != nil {
		s.logger.Error("Failed to sign tokens", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
	case errors.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	default:
		s.logger.Error("Stub request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
	}
}

// parseProviderFilter reads the listing query: category_id, city_id,
// area_ids (comma separated), verified, language and sort.
func parseProviderFilter(c *gin.Context) (domain.ProviderFilter, error) {
	var filter domain.ProviderFilter

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("category_id must be an integer")
		}
		filter.CategoryID = domain.Int64Ptr(id)
	}
	if v := c.Query("city_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return filter, fmt.Errorf("city_id must be an integer")
		}
		filter.CityID = domain.Int64Ptr(id)
	}
	if v := c.Query("area_ids"); v != "" {
		ids, err := util.ParseIDList(v)
		if err != nil {
			return filter, fmt.Errorf("area_ids: %w", err)
		}
		filter.AreaIDs = ids
	}
	if v := c.Query("verified"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, fmt.Errorf("verified must be a boolean")
		}
		filter.Verified = domain.BoolPtr(b)
	}
	filter.Language = strings.TrimSpace(c.Query("language"))
	filter.Sort = strings.TrimSpace(c.Query("sort"))
	return filter, nil
}
