package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/orgs-directory/backend/internal/models"
	"github.com/orgs-directory/backend/pkg/database"
)

// Store is the read access the activity endpoints and the resolver need.
// Repository serves it from PostgreSQL, Forest from memory.
type Store interface {
	List(ctx context.Context) ([]models.Activity, error)
	GetByID(ctx context.Context, id int64) (*models.Activity, error)
	GetByName(ctx context.Context, name string) (*models.Activity, error)
	ChildIDs(ctx context.Context, parentID int64) ([]int64, error)
}

// Repository handles activity reads.
type Repository struct {
	db database.Querier
}

// NewRepository creates an activities repository.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// List returns all activities ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Activity, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, parent_id FROM activities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Activity{}
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.Name, &a.ParentID); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetByID returns an activity by ID.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Activity, error) {
	const q = `SELECT id, name, parent_id FROM activities WHERE id = $1`
	var a models.Activity
	err := r.db.QueryRow(ctx, q, id).Scan(&a.ID, &a.Name, &a.ParentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("activity %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetByName returns the activity with exactly this name.
func (r *Repository) GetByName(ctx context.Context, name string) (*models.Activity, error) {
	const q = `SELECT id, name, parent_id FROM activities WHERE name = $1`
	var a models.Activity
	err := r.db.QueryRow(ctx, q, name).Scan(&a.ID, &a.Name, &a.ParentID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("activity %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ChildIDs returns the ids of the direct children of parentID.
func (r *Repository) ChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM activities WHERE parent_id = $1 ORDER BY id`, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
