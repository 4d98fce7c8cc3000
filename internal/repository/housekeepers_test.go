package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupMockHousekeepersDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresHousekeepersRepo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	repo := NewPostgresHousekeepersRepo(db, zap.NewNop())
	return db, mock, repo
}

func TestHousekeeperGetByFloor_Success(t *testing.T) {
	db, mock, repo := setupMockHousekeepersDB(t)
	defer db.Close()

	id := uuid.New().String()
	rows := sqlmock.NewRows([]string{"housekeeper_id", "name", "floor"}).
		AddRow(id, "Auto-HK-Floor-5", 5)

	mock.ExpectQuery(`SELECT`).
		WithArgs(5).
		WillReturnRows(rows)

	hk, err := repo.GetByFloor(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, id, hk.HousekeeperID)
	assert.Equal(t, 5, hk.Floor)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHousekeeperGetByFloor_NotFound(t *testing.T) {
	db, mock, repo := setupMockHousekeepersDB(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).
		WithArgs(7).
		WillReturnError(sql.ErrNoRows)

	hk, err := repo.GetByFloor(context.Background(), 7)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, hk)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHousekeeperCreate(t *testing.T) {
	db, mock, repo := setupMockHousekeepersDB(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO housekeepers`).
		WithArgs(sqlmock.AnyArg(), "Auto-HK-Floor-5", 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	hk, err := repo.Create(context.Background(), "Auto-HK-Floor-5", 5)

	require.NoError(t, err)
	assert.NotEmpty(t, hk.HousekeeperID)
	assert.Equal(t, "Auto-HK-Floor-5", hk.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHousekeeperCreate_EmptyName(t *testing.T) {
	db, _, repo := setupMockHousekeepersDB(t)
	defer db.Close()

	hk, err := repo.Create(context.Background(), "", 5)

	assert.Error(t, err)
	assert.Nil(t, hk)
}
