package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hotel-housekeeping/internal/models"

	"go.uber.org/zap"
)

// RosterRepo 排班仓库
type RosterRepo interface {
	EntriesFor(ctx context.Context, date string) ([]models.RosterEntry, error)
	// Insert 条件写入：主键 (date, floor, room_id) 已存在时不覆盖，
	// 返回 alreadyExists=true 且无错误（幂等 upsert）。
	Insert(ctx context.Context, entry models.RosterEntry) (alreadyExists bool, err error)
	SetCompleted(ctx context.Context, date, roomID string, completed bool) error
	Delete(ctx context.Context, date, roomID string) error
}

// PostgresRosterRepo Postgres 实现
type PostgresRosterRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRosterRepo(db *sql.DB, logger *zap.Logger) *PostgresRosterRepo {
	return &PostgresRosterRepo{db: db, logger: logger}
}

func (r *PostgresRosterRepo) EntriesFor(ctx context.Context, date string) ([]models.RosterEntry, error) {
	if date == "" {
		return nil, fmt.Errorf("date is required")
	}

	query := `
		SELECT date::text, floor, room_id, housekeeper_id, completed
		FROM roster
		WHERE date = $1
		ORDER BY floor, room_id
	`
	rows, err := r.db.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query roster: %w", err)
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		if err := rows.Scan(&e.Date, &e.Floor, &e.RoomID, &e.HousekeeperID, &e.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRosterRepo) Insert(ctx context.Context, entry models.RosterEntry) (bool, error) {
	query := `
		INSERT INTO roster (date, floor, room_id, housekeeper_id, completed)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date, floor, room_id) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query,
		entry.Date, entry.Floor, entry.RoomID, entry.HousekeeperID, entry.Completed)
	if err != nil {
		return false, fmt.Errorf("failed to insert roster entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		r.logger.Debug("Roster entry already exists",
			zap.String("date", entry.Date),
			zap.Int("floor", entry.Floor),
			zap.String("room_id", entry.RoomID),
		)
		return true, nil
	}
	return false, nil
}

func (r *PostgresRosterRepo) Delete(ctx context.Context, date, roomID string) error {
	query := `
		DELETE FROM roster
		WHERE date = $1 AND room_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, date, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete roster entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRosterRepo) SetCompleted(ctx context.Context, date, roomID string, completed bool) error {
	query := `
		UPDATE roster
		SET completed = $3
		WHERE date = $1 AND room_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, date, roomID, completed)
	if err != nil {
		return fmt.Errorf("failed to update roster entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
