package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/config"
	"github.com/orgs-directory/backend/internal/activities"
	"github.com/orgs-directory/backend/internal/auth"
	"github.com/orgs-directory/backend/internal/buildings"
	"github.com/orgs-directory/backend/internal/models"
	"github.com/orgs-directory/backend/internal/organizations"
)

const apiKey = "test-key"

type emptyOrgs struct{}

func (emptyOrgs) FindPage(context.Context, organizations.Query, organizations.Page) ([]models.Organization, int, error) {
	return []models.Organization{}, 0, nil
}
func (emptyOrgs) Find(context.Context, organizations.Query, organizations.Page) ([]models.Organization, error) {
	return []models.Organization{}, nil
}
func (emptyOrgs) GetByID(context.Context, int64) (*models.Organization, error) {
	return nil, models.ErrNotFound
}

type noBuildings struct{}

func (noBuildings) List(context.Context) ([]models.Building, error) { return []models.Building{}, nil }

type countAll struct{ n int64 }

func (c *countAll) Hit(context.Context, string) (int64, error) {
	c.n++
	return c.n, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{APIPrefix: "/api/v1", CORSAllowedOrigins: "*"},
		Auth:   config.AuthConfig{APIKey: apiKey, TokenTTLMinutes: 5},
		Search: config.SearchConfig{DefaultLimit: 100},
	}
}

func newTestRouter(cfg *config.Config, limiter *countAll) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	forest := activities.NewForest([]models.Activity{{ID: 1, Name: "Еда"}})
	resolver := activities.NewResolver(forest)
	tokens := auth.NewTokenService(cfg.Auth.APIKey, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	svc := organizations.NewService(emptyOrgs{}, forest, resolver, cfg.Search.MaxLimit, logger)

	h := Handlers{
		Organizations: organizations.NewHandler(svc, cfg.Search.DefaultLimit, logger),
		Activities:    activities.NewHandler(forest, resolver, logger),
		Buildings:     buildings.NewHandler(noBuildings{}, logger),
		Auth:          auth.NewHandler(tokens, logger),
	}
	if limiter == nil {
		return NewRouter(cfg, h, tokens, nil, logger)
	}
	return NewRouter(cfg, h, tokens, limiter, logger)
}

func do(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_PublicEndpoints(t *testing.T) {
	r := newTestRouter(testConfig(), nil)

	w := do(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, w.Body.String())

	w = do(r, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RequiresAuth(t *testing.T) {
	r := newTestRouter(testConfig(), nil)

	for _, path := range []string{
		"/api/v1/buildings",
		"/api/v1/activities",
		"/api/v1/organizations/search",
		"/api/v1/organizations/1",
	} {
		w := do(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := do(r, http.MethodGet, "/api/v1/organizations/search", map[string]string{"X-API-Key": apiKey})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"results":[],"total":0}}`, w.Body.String())
}

func TestRouter_TokenFlow(t *testing.T) {
	r := newTestRouter(testConfig(), nil)

	w := do(r, http.MethodPost, "/api/v1/auth/token", map[string]string{"X-API-Key": apiKey})
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data auth.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data.AccessToken)

	bearer := map[string]string{"Authorization": "Bearer " + body.Data.AccessToken}
	w = do(r, http.MethodGet, "/api/v1/activities/1", bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	// A token cannot mint further tokens.
	w = do(r, http.MethodPost, "/api/v1/auth/token", bearer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_NotFoundMapping(t *testing.T) {
	r := newTestRouter(testConfig(), nil)
	key := map[string]string{"X-API-Key": apiKey}

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/organizations/5", key).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/api/v1/activities/5", key).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/activities/tree", key).Code)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.PerMinute = 2
	r := newTestRouter(cfg, &countAll{})
	key := map[string]string{"X-API-Key": apiKey}

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/buildings", key).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/buildings", key).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/api/v1/buildings", key).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health", nil).Code)
}
