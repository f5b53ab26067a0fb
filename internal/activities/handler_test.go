package activities

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/internal/models"
)

type failingStore struct{ *Forest }

func (failingStore) List(context.Context) ([]models.Activity, error) {
	return nil, errors.New("db down")
}

func setupRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(store, NewResolver(store), zap.NewNop())
	r := gin.New()
	r.GET("/activities", h.List)
	r.GET("/activities/tree", h.Tree)
	r.GET("/activities/:id", h.GetByID)
	r.GET("/activities/:id/descendants", h.Descendants)
	return r
}

func get(t *testing.T, r http.Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestHandler_GetByID(t *testing.T) {
	r := setupRouter(seedForest())

	w, body := get(t, r, "/activities/3")
	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "Мясная продукция", data["name"])
	assert.Equal(t, float64(1), data["parent_id"])

	w, body = get(t, r, "/activities/99")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Activity not found", body["error"])

	w, _ = get(t, r, "/activities/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Descendants(t *testing.T) {
	r := setupRouter(seedForest())

	w, body := get(t, r, "/activities/2/descendants")
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{float64(2), float64(5), float64(6), float64(7), float64(8)}, data["activity_ids"])

	w, _ = get(t, r, "/activities/99/descendants")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Tree(t *testing.T) {
	r := setupRouter(seedForest())

	w, body := get(t, r, "/activities/tree")
	require.Equal(t, http.StatusOK, w.Code)
	roots := body["data"].([]any)
	assert.Len(t, roots, 2)
}

func TestHandler_ListStoreFailure(t *testing.T) {
	r := setupRouter(failingStore{seedForest()})

	w, body := get(t, r, "/activities")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
}
