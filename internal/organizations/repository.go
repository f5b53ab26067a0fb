package organizations

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/orgs-directory/backend/internal/geo"
	"github.com/orgs-directory/backend/internal/models"
	"github.com/orgs-directory/backend/pkg/database"
)

// Query is the AND-combination of predicates applied to organizations. Zero fields are not applied.
type Query struct {
	Name        string // case-insensitive substring
	BuildingID  *int64
	ActivityIDs []int64 // nil means no activity filter
	Bounds      *geo.Bounds
}

// Page selects a window of matches. A negative Limit returns everything after Skip.
type Page struct {
	Skip  int
	Limit int
}

// All is the page used by the unpaginated lookups.
var All = Page{Limit: -1}

// Store is the data access the search service needs.
type Store interface {
	FindPage(ctx context.Context, q Query, page Page) ([]models.Organization, int, error)
	Find(ctx context.Context, q Query, page Page) ([]models.Organization, error)
	GetByID(ctx context.Context, id int64) (*models.Organization, error)
}

// Repository handles organization reads with their phones and activities.
type Repository struct {
	db database.DB
}

// NewRepository creates an organizations repository.
func NewRepository(db database.DB) *Repository {
	return &Repository{db: db}
}

var snapshot = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// FindPage returns one page of matches plus the total number of matches.
// Both are read in one repeatable-read transaction, so the total agrees with the page.
func (r *Repository) FindPage(ctx context.Context, q Query, page Page) ([]models.Organization, int, error) {
	var (
		list  []models.Organization
		total int
	)
	err := pgx.BeginTxFunc(ctx, r.db, snapshot, func(tx pgx.Tx) error {
		var err error
		if total, err = count(ctx, tx, q); err != nil {
			return err
		}
		list, err = find(ctx, tx, q, page)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// Find returns the matching organizations in the store's natural order, windowed by page.
// No ORDER BY is applied, so order across calls is only as stable as the underlying scan.
func (r *Repository) Find(ctx context.Context, q Query, page Page) ([]models.Organization, error) {
	return find(ctx, r.db, q, page)
}

func count(ctx context.Context, db database.Querier, q Query) (int, error) {
	from, args := buildFilter(q)
	var n int
	if err := db.QueryRow(ctx, "SELECT count(*) "+from, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count organizations: %w", err)
	}
	return n, nil
}

func find(ctx context.Context, db database.Querier, q Query, page Page) ([]models.Organization, error) {
	from, args := buildFilter(q)
	sql := "SELECT o.id, o.name, o.building_id " + from
	if page.Skip > 0 {
		args = append(args, page.Skip)
		sql += " OFFSET $" + strconv.Itoa(len(args))
	}
	if page.Limit >= 0 {
		args = append(args, page.Limit)
		sql += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("find organizations: %w", err)
	}
	defer rows.Close()

	list := []models.Organization{}
	for rows.Next() {
		var o models.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.BuildingID); err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := loadRelations(ctx, db, list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetByID returns one organization with phones and activities.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Organization, error) {
	const q = `SELECT id, name, building_id FROM organizations WHERE id = $1`
	var o models.Organization
	err := r.db.QueryRow(ctx, q, id).Scan(&o.ID, &o.Name, &o.BuildingID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("organization %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	list := []models.Organization{o}
	if err := loadRelations(ctx, r.db, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

// loadRelations fills Phones and Activities for every organization in two batched queries.
func loadRelations(ctx context.Context, db database.Querier, list []models.Organization) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]int64, len(list))
	index := make(map[int64]int, len(list))
	for i := range list {
		ids[i] = list[i].ID
		index[list[i].ID] = i
		list[i].Phones = []models.Phone{}
		list[i].Activities = []models.Activity{}
	}

	rows, err := db.Query(ctx, `SELECT id, number, organization_id FROM phones WHERE organization_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("load phones: %w", err)
	}
	for rows.Next() {
		var p models.Phone
		if err := rows.Scan(&p.ID, &p.Number, &p.OrganizationID); err != nil {
			rows.Close()
			return err
		}
		if i, ok := index[p.OrganizationID]; ok {
			list[i].Phones = append(list[i].Phones, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load phones: %w", err)
	}

	rows, err = db.Query(ctx, `SELECT oa.organization_id, a.id, a.name
		FROM organization_activity oa
		INNER JOIN activities a ON a.id = oa.activity_id
		WHERE oa.organization_id = ANY($1)
		ORDER BY a.id`, ids)
	if err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var orgID int64
		var a models.Activity
		if err := rows.Scan(&orgID, &a.ID, &a.Name); err != nil {
			return err
		}
		if i, ok := index[orgID]; ok {
			list[i].Activities = append(list[i].Activities, a)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load activities: %w", err)
	}
	return nil
}

// buildFilter renders the FROM and WHERE clauses for q with positional args.
// Activity membership is an EXISTS subquery so an organization matching several ids appears once.
func buildFilter(q Query) (string, []any) {
	var (
		cond []string
		args []any
	)
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	from := "FROM organizations o"
	if q.Bounds != nil {
		from += " INNER JOIN buildings b ON b.id = o.building_id"
	}
	if q.Name != "" {
		cond = append(cond, "o.name ILIKE "+next("%"+escapeLike(q.Name)+"%"))
	}
	if q.BuildingID != nil {
		cond = append(cond, "o.building_id = "+next(*q.BuildingID))
	}
	if q.ActivityIDs != nil {
		cond = append(cond, "EXISTS (SELECT 1 FROM organization_activity oa WHERE oa.organization_id = o.id AND oa.activity_id = ANY("+next(q.ActivityIDs)+"))")
	}
	if q.Bounds != nil {
		cond = append(cond, "b.latitude BETWEEN "+next(q.Bounds.MinLat)+" AND "+next(q.Bounds.MaxLat))
		cond = append(cond, "b.longitude BETWEEN "+next(q.Bounds.MinLon)+" AND "+next(q.Bounds.MaxLon))
	}
	if len(cond) > 0 {
		from += " WHERE " + strings.Join(cond, " AND ")
	}
	return from, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
