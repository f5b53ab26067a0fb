package activities

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/internal/models"
	"github.com/orgs-directory/backend/pkg/response"
)

// Handler handles activity HTTP endpoints.
type Handler struct {
	store    Store
	resolver *Resolver
	logger   *zap.Logger
}

// NewHandler creates an activities handler.
func NewHandler(store Store, resolver *Resolver, logger *zap.Logger) *Handler {
	return &Handler{store: store, resolver: resolver, logger: logger}
}

// DescendantsResponse is the body for GET /activities/:id/descendants.
type DescendantsResponse struct {
	ActivityID  int64   `json:"activity_id"`
	ActivityIDs []int64 `json:"activity_ids"`
}

// List handles GET /activities.
func (h *Handler) List(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list activities", zap.Error(err))
		response.Internal(c, "failed to load activities")
		return
	}
	response.OK(c, list)
}

// GetByID handles GET /activities/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	a, err := h.store.GetByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		response.NotFound(c, "Activity not found")
		return
	}
	if err != nil {
		h.logger.Error("get activity", zap.Int64("activity_id", id), zap.Error(err))
		response.Internal(c, "failed to load activity")
		return
	}
	response.OK(c, a)
}

// Descendants handles GET /activities/:id/descendants. Returns the activity and everything under it.
func (h *Handler) Descendants(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if _, err := h.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			response.NotFound(c, "Activity not found")
			return
		}
		h.logger.Error("get activity", zap.Int64("activity_id", id), zap.Error(err))
		response.Internal(c, "failed to load activity")
		return
	}
	ids, err := h.resolver.ExpandDescendants(ctx, id)
	if err != nil {
		h.logger.Error("expand activity", zap.Int64("activity_id", id), zap.Error(err))
		response.Internal(c, "failed to expand activity")
		return
	}
	response.OK(c, DescendantsResponse{ActivityID: id, ActivityIDs: ids})
}

// Tree handles GET /activities/tree.
func (h *Handler) Tree(c *gin.Context) {
	list, err := h.store.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list activities", zap.Error(err))
		response.Internal(c, "failed to load activities")
		return
	}
	response.OK(c, NewForest(list).Tree(MaxDepth))
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid activity id")
		return 0, false
	}
	return id, true
}
