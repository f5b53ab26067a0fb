package buildings

import (
	"context"

	"github.com/orgs-directory/backend/internal/models"
	"github.com/orgs-directory/backend/pkg/database"
)

// Repository handles building reads.
type Repository struct {
	db database.Querier
}

// NewRepository creates a buildings repository.
func NewRepository(db database.Querier) *Repository {
	return &Repository{db: db}
}

// List returns all buildings ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Building, error) {
	rows, err := r.db.Query(ctx, `SELECT id, address, latitude, longitude FROM buildings ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Building{}
	for rows.Next() {
		var b models.Building
		if err := rows.Scan(&b.ID, &b.Address, &b.Latitude, &b.Longitude); err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
