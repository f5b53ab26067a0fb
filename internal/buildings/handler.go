package buildings

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/internal/models"
	"github.com/orgs-directory/backend/pkg/response"
)

// Lister lists buildings.
type Lister interface {
	List(ctx context.Context) ([]models.Building, error)
}

// Handler handles building HTTP endpoints.
type Handler struct {
	repo   Lister
	logger *zap.Logger
}

// NewHandler creates a buildings handler.
func NewHandler(repo Lister, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /buildings.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list buildings", zap.Error(err))
		response.Internal(c, "failed to load buildings")
		return
	}
	response.OK(c, list)
}
