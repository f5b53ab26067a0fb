package organizations

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/orgs-directory/backend/internal/geo"
	"github.com/orgs-directory/backend/internal/metrics"
	"github.com/orgs-directory/backend/internal/models"
)

// ErrInvalidPage is returned for a negative skip or limit.
var ErrInvalidPage = errors.New("skip and limit must not be negative")

// ActivityLookup resolves an activity by exact name.
type ActivityLookup interface {
	GetByName(ctx context.Context, name string) (*models.Activity, error)
}

// Expander expands an activity id into itself plus its depth-capped descendants.
type Expander interface {
	ExpandDescendants(ctx context.Context, rootID int64) ([]int64, error)
}

// Filter is the set of optional search criteria, combined with AND.
type Filter struct {
	Name         string
	BuildingID   *int64
	ActivityID   *int64
	ActivityName string // used only when ActivityID is nil
	Geo          geo.Query
}

// Service is the organization search engine.
type Service struct {
	store      Store
	activities ActivityLookup
	expander   Expander
	maxLimit   int
	logger     *zap.Logger
}

// NewService creates a search service. maxLimit > 0 clamps page sizes; 0 leaves them uncapped.
func NewService(store Store, activities ActivityLookup, expander Expander, maxLimit int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, activities: activities, expander: expander, maxLimit: maxLimit, logger: logger}
}

// Search returns one page of organizations matching f plus the total number of matches.
//
// An activity name that matches nothing leaves the activity filter off. A complete radius
// (lat, lon, radius) takes precedence over a bounding box. Results come in the store's
// natural order; there is no sort key.
func (s *Service) Search(ctx context.Context, f Filter, page Page) (*models.SearchResult, error) {
	if page.Skip < 0 || page.Limit < 0 {
		return nil, ErrInvalidPage
	}
	if s.maxLimit > 0 && page.Limit > s.maxLimit {
		page.Limit = s.maxLimit
	}

	activityID := f.ActivityID
	if activityID == nil && f.ActivityName != "" {
		a, err := s.activities.GetByName(ctx, f.ActivityName)
		switch {
		case errors.Is(err, models.ErrNotFound):
			s.logger.Debug("activity name not found, filter ignored", zap.String("activity_name", f.ActivityName))
		case err != nil:
			return nil, fmt.Errorf("resolve activity name: %w", err)
		default:
			activityID = &a.ID
		}
	}

	q := Query{Name: f.Name, BuildingID: f.BuildingID}
	if activityID != nil {
		ids, err := s.expander.ExpandDescendants(ctx, *activityID)
		if err != nil {
			return nil, fmt.Errorf("expand activity: %w", err)
		}
		q.ActivityIDs = ids
	}
	if b, ok := f.Geo.Resolve(); ok {
		q.Bounds = &b
	}

	list, total, err := s.store.FindPage(ctx, q, page)
	if err != nil {
		return nil, err
	}

	metrics.SearchTotalResults.Observe(float64(total))
	s.logger.Debug("organization search",
		zap.String("name", q.Name),
		zap.Int("activity_ids", len(q.ActivityIDs)),
		zap.Bool("geo", q.Bounds != nil),
		zap.Int("skip", page.Skip),
		zap.Int("limit", page.Limit),
		zap.Int("total", total),
	)
	return &models.SearchResult{Results: AssembleAll(list), Total: total}, nil
}

// Get returns one organization view.
func (s *Service) Get(ctx context.Context, id int64) (*models.OrganizationView, error) {
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	v := Assemble(*o)
	return &v, nil
}

// ByBuilding returns every organization located in the building.
func (s *Service) ByBuilding(ctx context.Context, buildingID int64) ([]models.OrganizationView, error) {
	list, err := s.store.Find(ctx, Query{BuildingID: &buildingID}, All)
	if err != nil {
		return nil, err
	}
	return AssembleAll(list), nil
}

// ByActivity returns every organization tagged with the activity or one of its descendants.
func (s *Service) ByActivity(ctx context.Context, activityID int64) ([]models.OrganizationView, error) {
	ids, err := s.expander.ExpandDescendants(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("expand activity: %w", err)
	}
	list, err := s.store.Find(ctx, Query{ActivityIDs: ids}, All)
	if err != nil {
		return nil, err
	}
	return AssembleAll(list), nil
}
