package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hotel-housekeeping/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// RoomsRepo 房间仓库
type RoomsRepo interface {
	GetRoom(ctx context.Context, roomID string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]models.Room, error)
	CreateRoom(ctx context.Context, room models.Room) error
	// UpdateStatus 写入房间状态并自增 status_version。
	// expectedVersion 非 nil 时为条件写入：版本不匹配返回 ErrVersionConflict。
	UpdateStatus(ctx context.Context, roomID, status string, expectedVersion *int64) (*models.Room, error)
}

// PostgresRoomsRepo Postgres 实现
type PostgresRoomsRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresRoomsRepo(db *sql.DB, logger *zap.Logger) *PostgresRoomsRepo {
	return &PostgresRoomsRepo{db: db, logger: logger}
}

func (r *PostgresRoomsRepo) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	if roomID == "" {
		return nil, fmt.Errorf("room_id is required")
	}

	query := `
		SELECT room_id, floor, room_type, status, status_version
		FROM rooms
		WHERE room_id = $1
	`
	var room models.Room
	err := r.db.QueryRowContext(ctx, query, roomID).Scan(
		&room.RoomID,
		&room.Floor,
		&room.RoomType,
		&room.Status,
		&room.StatusVersion,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query room: %w", err)
	}
	return &room, nil
}

func (r *PostgresRoomsRepo) ListRooms(ctx context.Context) ([]models.Room, error) {
	query := `
		SELECT room_id, floor, room_type, status, status_version
		FROM rooms
		ORDER BY room_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.Room
	for rows.Next() {
		var room models.Room
		if err := rows.Scan(&room.RoomID, &room.Floor, &room.RoomType, &room.Status, &room.StatusVersion); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *PostgresRoomsRepo) CreateRoom(ctx context.Context, room models.Room) error {
	query := `
		INSERT INTO rooms (room_id, floor, room_type, status, status_version)
		VALUES ($1, $2, $3, $4, 0)
	`
	status := room.Status
	if status == "" {
		status = models.StatusVacant
	}
	_, err := r.db.ExecContext(ctx, query, room.RoomID, room.Floor, room.RoomType, status)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *PostgresRoomsRepo) UpdateStatus(ctx context.Context, roomID, status string, expectedVersion *int64) (*models.Room, error) {
	var (
		query string
		args  []any
	)
	if expectedVersion != nil {
		query = `
			UPDATE rooms
			SET status = $2, status_version = status_version + 1
			WHERE room_id = $1 AND status_version = $3
			RETURNING room_id, floor, room_type, status, status_version
		`
		args = []any{roomID, status, *expectedVersion}
	} else {
		query = `
			UPDATE rooms
			SET status = $2, status_version = status_version + 1
			WHERE room_id = $1
			RETURNING room_id, floor, room_type, status, status_version
		`
		args = []any{roomID, status}
	}

	var room models.Room
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&room.RoomID,
		&room.Floor,
		&room.RoomType,
		&room.Status,
		&room.StatusVersion,
	)
	if err == sql.ErrNoRows {
		// 区分不存在与版本冲突
		var one int
		existsErr := r.db.QueryRowContext(ctx, `SELECT 1 FROM rooms WHERE room_id = $1`, roomID).Scan(&one)
		if existsErr == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		if existsErr != nil {
			return nil, fmt.Errorf("failed to check room existence: %w", existsErr)
		}
		return nil, ErrVersionConflict
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update room status: %w", err)
	}
	return &room, nil
}
