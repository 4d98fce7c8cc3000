package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hotel-housekeeping/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HousekeepersRepo 清洁工仓库
type HousekeepersRepo interface {
	// GetByFloor 取该楼层的清洁工；同层多人时取最早创建的一个。
	GetByFloor(ctx context.Context, floor int) (*models.Housekeeper, error)
	Create(ctx context.Context, name string, floor int) (*models.Housekeeper, error)
	List(ctx context.Context) ([]models.Housekeeper, error)
}

// PostgresHousekeepersRepo Postgres 实现
type PostgresHousekeepersRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresHousekeepersRepo(db *sql.DB, logger *zap.Logger) *PostgresHousekeepersRepo {
	return &PostgresHousekeepersRepo{db: db, logger: logger}
}

func (r *PostgresHousekeepersRepo) GetByFloor(ctx context.Context, floor int) (*models.Housekeeper, error) {
	query := `
		SELECT housekeeper_id, name, floor
		FROM housekeepers
		WHERE floor = $1
		ORDER BY created_at
		LIMIT 1
	`
	var hk models.Housekeeper
	err := r.db.QueryRowContext(ctx, query, floor).Scan(&hk.HousekeeperID, &hk.Name, &hk.Floor)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query housekeeper: %w", err)
	}
	return &hk, nil
}

func (r *PostgresHousekeepersRepo) Create(ctx context.Context, name string, floor int) (*models.Housekeeper, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	hk := models.Housekeeper{
		HousekeeperID: uuid.New().String(),
		Name:          name,
		Floor:         floor,
	}
	query := `
		INSERT INTO housekeepers (housekeeper_id, name, floor, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	if _, err := r.db.ExecContext(ctx, query, hk.HousekeeperID, hk.Name, hk.Floor); err != nil {
		return nil, fmt.Errorf("failed to create housekeeper: %w", err)
	}

	r.logger.Info("Housekeeper created",
		zap.String("housekeeper_id", hk.HousekeeperID),
		zap.Int("floor", floor),
	)
	return &hk, nil
}

func (r *PostgresHousekeepersRepo) List(ctx context.Context) ([]models.Housekeeper, error) {
	query := `
		SELECT housekeeper_id, name, floor
		FROM housekeepers
		ORDER BY floor, created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list housekeepers: %w", err)
	}
	defer rows.Close()

	var out []models.Housekeeper
	for rows.Next() {
		var hk models.Housekeeper
		if err := rows.Scan(&hk.HousekeeperID, &hk.Name, &hk.Floor); err != nil {
			return nil, fmt.Errorf("failed to scan housekeeper: %w", err)
		}
		out = append(out, hk)
	}
	return out, rows.Err()
}
