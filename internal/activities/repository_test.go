package activities

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgs-directory/backend/internal/models"
)

func setupMockDB(t *testing.T) (pgxmock.PgxPoolIface, *Repository) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewRepository(mock)
}

func TestRepository_ChildIDs(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT id FROM activities WHERE parent_id`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)).AddRow(int64(4)))

	ids, err := repo.ChildIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ChildIDs_Empty(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT id FROM activities WHERE parent_id`).
		WithArgs(int64(8)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))

	ids, err := repo.ChildIDs(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	mock, repo := setupMockDB(t)

	mock.ExpectQuery(`SELECT id, name, parent_id FROM activities WHERE id`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "parent_id"}))

	a, err := repo.GetByID(context.Background(), 42)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByName_QueryError(t *testing.T) {
	mock, repo := setupMockDB(t)
	boom := errors.New("connection refused")

	mock.ExpectQuery(`SELECT id, name, parent_id FROM activities WHERE name`).
		WithArgs("Еда").
		WillReturnError(boom)

	_, err := repo.GetByName(context.Background(), "Еда")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, models.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
