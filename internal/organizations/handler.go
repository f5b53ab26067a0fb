package organizations

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/orgs-directory/backend/internal/geo"
	"github.com/orgs-directory/backend/internal/models"
	"github.com/orgs-directory/backend/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	svc          *Service
	defaultLimit int
	logger       *zap.Logger
}

// NewHandler creates an organizations handler.
func NewHandler(svc *Service, defaultLimit int, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, defaultLimit: defaultLimit, logger: logger}
}

// SearchRequest is the query string for GET /organizations/search.
type SearchRequest struct {
	Name         string   `form:"name"`
	ActivityID   *int64   `form:"activity_id"`
	ActivityName string   `form:"activity_name"`
	BuildingID   *int64   `form:"building_id"`
	Lat          *float64 `form:"lat"`
	Lon          *float64 `form:"lon"`
	RadiusKm     *float64 `form:"radius_km"`
	MinLat       *float64 `form:"min_lat"`
	MaxLat       *float64 `form:"max_lat"`
	MinLon       *float64 `form:"min_lon"`
	MaxLon       *float64 `form:"max_lon"`
	Skip         *int     `form:"skip" binding:"omitempty,min=0"`
	Limit        *int     `form:"limit" binding:"omitempty,min=0"`
}

// numericParams bind into pointers; gin turns an empty value into a non-nil zero.
var numericParams = []string{
	"activity_id", "building_id",
	"lat", "lon", "radius_km",
	"min_lat", "max_lat", "min_lon", "max_lon",
	"skip", "limit",
}

// emptyNumericParam returns the first numeric parameter present with an empty value.
func emptyNumericParam(c *gin.Context) (string, bool) {
	q := c.Request.URL.Query()
	for _, k := range numericParams {
		if v, ok := q[k]; ok && (len(v) == 0 || strings.TrimSpace(v[0]) == "") {
			return k, true
		}
	}
	return "", false
}

func (r SearchRequest) filter() Filter {
	return Filter{
		Name:         r.Name,
		BuildingID:   r.BuildingID,
		ActivityID:   r.ActivityID,
		ActivityName: r.ActivityName,
		Geo: geo.Query{
			Lat: r.Lat, Lon: r.Lon, RadiusKm: r.RadiusKm,
			MinLat: r.MinLat, MaxLat: r.MaxLat, MinLon: r.MinLon, MaxLon: r.MaxLon,
		},
	}
}

func (r SearchRequest) page(defaultLimit int) Page {
	p := Page{Limit: defaultLimit}
	if r.Skip != nil {
		p.Skip = *r.Skip
	}
	if r.Limit != nil {
		p.Limit = *r.Limit
	}
	return p
}

// Search handles GET /organizations/search.
func (h *Handler) Search(c *gin.Context) {
	if k, ok := emptyNumericParam(c); ok {
		response.BadRequest(c, "invalid search parameters: "+k+" must not be empty")
		return
	}
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid search parameters: "+err.Error())
		return
	}
	res, err := h.svc.Search(c.Request.Context(), req.filter(), req.page(h.defaultLimit))
	if errors.Is(err, ErrInvalidPage) {
		response.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("search organizations", zap.Error(err))
		response.Internal(c, "failed to search organizations")
		return
	}
	response.OK(c, res)
}

// GetByID handles GET /organizations/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "organization")
	if !ok {
		return
	}
	v, err := h.svc.Get(c.Request.Context(), id)
	if errors.Is(err, models.ErrNotFound) {
		response.NotFound(c, "Organization not found")
		return
	}
	if err != nil {
		h.logger.Error("get organization", zap.Int64("organization_id", id), zap.Error(err))
		response.Internal(c, "failed to load organization")
		return
	}
	response.OK(c, v)
}

// ByBuilding handles GET /organizations/by-building/:id.
func (h *Handler) ByBuilding(c *gin.Context) {
	id, ok := parseID(c, "building")
	if !ok {
		return
	}
	list, err := h.svc.ByBuilding(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("organizations by building", zap.Int64("building_id", id), zap.Error(err))
		response.Internal(c, "failed to load organizations")
		return
	}
	response.OK(c, list)
}

// ByActivity handles GET /organizations/by-activity/:id. Includes descendant activities.
func (h *Handler) ByActivity(c *gin.Context) {
	id, ok := parseID(c, "activity")
	if !ok {
		return
	}
	list, err := h.svc.ByActivity(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("organizations by activity", zap.Int64("activity_id", id), zap.Error(err))
		response.Internal(c, "failed to load organizations")
		return
	}
	response.OK(c, list)
}

func parseID(c *gin.Context, kind string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid "+kind+" id")
		return 0, false
	}
	return id, true
}
