package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/menna-app/menna-go/internal/domain"
	"github.com/menna-app/menna-go/pkg/errors"
)

const providerJSON = `{
	"id": 1,
	"name": "Hassan",
	"bio_i18n": {"ar": "كهربائي معتمد", "en": "Certified electrician"},
	"verified": true,
	"languages": ["ar", "he"],
	"categories": [1],
	"city_id": 1,
	"area_ids": [1, 2]
}`

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

type recorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *recorder) last(t *testing.T) recordedRequest {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.requests)
	return r.requests[len(r.requests)-1]
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.requests = append(rec.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   data,
		})
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

type countingObserver struct {
	mu    sync.Mutex
	calls []string
	codes []int
}

func (o *countingObserver) ObserveRequest(method, route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, method+" "+route)
	o.codes = append(o.codes, status)
}

func TestListProvidersVerifiedQuery(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, "["+providerJSON+"]")
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	providers, err := client.ListProviders(context.Background(), domain.ProviderFilter{Verified: domain.BoolPtr(true)})
	require.NoError(t, err)
	require.Len(t, providers, 1)
	assert.Equal(t, "Hassan", providers[0].Name)
	assert.Zero(t, providers[0].RatingCount)

	req := rec.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/providers", req.Path)
	assert.Equal(t, "verified=true", req.Query)
}

func TestListProvidersEmptyFilterHasNoQuery(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, "[]")
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	providers, err := client.ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)
	assert.Empty(t, providers)
	assert.Empty(t, rec.last(t).Query)
}

func TestListProvidersAllFilters(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, "[]")
	client := NewClient(srv.URL, domain.LocaleEnglish, zap.NewNop())

	_, err := client.ListProviders(context.Background(), domain.ProviderFilter{
		CategoryID: domain.Int64Ptr(1),
		CityID:     domain.Int64Ptr(2),
		AreaIDs:    []int64{4, 5},
		Language:   "he",
		Sort:       "rating",
	})
	require.NoError(t, err)
	assert.Equal(t, "area_ids=4%2C5&category_id=1&city_id=2&language=he&sort=rating", rec.last(t).Query)
}

func TestListProvidersTransportError(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, `{"detail":"boom"}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	providers, err := client.ListProviders(context.Background(), domain.ProviderFilter{})
	assert.Nil(t, providers)
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.False(t, errors.IsValidation(err))
	assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(err))
}

func TestListProvidersValidationError(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[{"name": "no city"}]`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	providers, err := client.ListProviders(context.Background(), domain.ProviderFilter{})
	assert.Nil(t, providers)
	assert.True(t, errors.IsValidation(err))
	assert.False(t, errors.IsTransport(err))
}

func TestGetProviderNotFound(t *testing.T) {
	srv, rec := newServer(t, http.StatusNotFound, `{"detail":"Provider not found"}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	provider, err := client.GetProvider(context.Background(), 999)
	assert.Nil(t, provider)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsTransport(err))
	assert.Equal(t, http.StatusNotFound, errors.StatusCode(err))
	assert.Equal(t, "/providers/999", rec.last(t).Path)
}

func TestGetProviderServerErrorIsNotFound(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, `{"detail":"boom"}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	provider, err := client.GetProvider(context.Background(), 7)
	assert.Nil(t, provider)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, http.StatusInternalServerError, errors.StatusCode(err))
}

func TestGetProviderUnreachableStaysTransport(t *testing.T) {
	down := httptest.NewServer(nil)
	baseURL := down.URL
	down.Close()
	client := NewClient(baseURL, domain.LocaleArabic, zap.NewNop())

	provider, err := client.GetProvider(context.Background(), 1)
	assert.Nil(t, provider)
	assert.True(t, errors.IsTransport(err))
	assert.False(t, errors.IsNotFound(err))
	assert.Zero(t, errors.StatusCode(err))
}

func TestGetProvider(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, providerJSON)
	client := NewClient(srv.URL+"/", domain.LocaleHebrew, zap.NewNop())

	provider, err := client.GetProvider(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), provider.IDValue())
	assert.Equal(t, "Certified electrician", provider.Bio(domain.LocaleHebrew))
	assert.Equal(t, "/providers/1", rec.last(t).Path)
}

func TestCreateLeadSendsAreaIDsAsArray(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"id": 42}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	created, err := client.CreateLead(context.Background(), &domain.LeadRequest{
		CategoryID:  1,
		CityID:      1,
		AreaIDs:     []int64{1, 2},
		Description: "تصليح ماس كهربائي",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)

	req := rec.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/leads", req.Path)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(req.Body, &body))
	assert.JSONEq(t, `[1,2]`, string(body["area_ids"]))
	_, hasPreferred := body["preferred_time"]
	assert.False(t, hasPreferred)
}

func TestCreateLeadSendsEmptyAreaList(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"id": 3}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	lead := &domain.LeadRequest{CategoryID: 1, CityID: 1, Description: "x"}
	_, err := client.CreateLead(context.Background(), lead)
	require.NoError(t, err)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.last(t).Body, &body))
	assert.JSONEq(t, `[]`, string(body["area_ids"]))
	assert.Nil(t, lead.AreaIDs)
}

func TestCreateLeadRejectsInvalidLocally(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"id": 1}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	_, err := client.CreateLead(context.Background(), &domain.LeadRequest{CityID: 1})
	assert.True(t, errors.IsValidation(err))
	assert.Empty(t, rec.requests)
}

func TestCreateLeadServerFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadRequest, `{"detail":"Invalid area"}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	created, err := client.CreateLead(context.Background(), &domain.LeadRequest{CategoryID: 1, CityID: 1, AreaIDs: []int64{9}})
	assert.Nil(t, created)
	assert.True(t, errors.IsTransport(err))
	assert.Equal(t, http.StatusBadRequest, errors.StatusCode(err))
}

func TestCreateReview(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"id": 5}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	created, err := client.CreateReview(context.Background(), &domain.Review{LeadID: 1, ProviderID: 2, Rating: 5})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, int64(5), *created.ID)
	assert.JSONEq(t, `{"lead_id":1,"provider_id":2,"rating":5}`, string(rec.last(t).Body))

	_, err = client.CreateReview(context.Background(), &domain.Review{LeadID: 1, ProviderID: 2, Rating: 6})
	assert.True(t, errors.IsValidation(err))
	assert.Len(t, rec.requests, 1)
}

func TestHeaders(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, "[]")
	client := NewClient(srv.URL, domain.LocaleHebrew, zap.NewNop())

	_, err := client.ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)

	req := rec.last(t)
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
	assert.Equal(t, "he", req.Header.Get("Accept-Language"))
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

	_, err = client.WithToken("abc").WithLocale(domain.LocaleEnglish).ListProviders(context.Background(), domain.ProviderFilter{})
	require.NoError(t, err)

	req = rec.last(t)
	assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	assert.Equal(t, "en", req.Header.Get("Accept-Language"))
	assert.Equal(t, domain.LocaleHebrew, client.Locale(), "WithLocale must not mutate the receiver")
}

func TestLogin(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"access_token":"a","refresh_token":"r","token_type":"bearer"}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	token, err := client.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a", token.AccessToken)
	assert.JSONEq(t, `{"email":"user@example.com","password":"secret"}`, string(rec.last(t).Body))
}

func TestLoginFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusUnauthorized, `{"detail":"Invalid credentials"}`)
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	token, err := client.Login(context.Background(), "user@example.com", "wrong")
	assert.Nil(t, token)
	assert.True(t, errors.IsTransport(err))
	assert.Equal(t, http.StatusUnauthorized, errors.StatusCode(err))
}

func TestCancelledContext(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "[]")
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProviders(ctx, domain.ProviderFilter{})
	require.Error(t, err)
	assert.True(t, errors.IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestObserverSeesRoutes(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, `{}`)
	obs := &countingObserver{}
	client := NewClient(srv.URL, domain.LocaleArabic, zap.NewNop(), WithObserver(obs))

	_, _ = client.GetProvider(context.Background(), 7)
	assert.Equal(t, []string{"GET /providers/{id}"}, obs.calls)
	assert.Equal(t, []int{http.StatusNotFound}, obs.codes)
}

func TestDefaultBaseURL(t *testing.T) {
	client := NewClient("", domain.LocaleArabic, nil)
	assert.Equal(t, "http://localhost:8000", client.BaseURL())
	assert.False(t, client.HasToken())
	assert.True(t, NewClient("", domain.LocaleArabic, nil, WithBearerToken(" t ")).HasToken())
}
