package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
)

// RoomClient Room Registry 客户端
type RoomClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewRoomClient(baseURL string, timeout time.Duration, logger *zap.Logger) *RoomClient {
	return &RoomClient{
		httpClient: newHTTPClient(baseURL, timeout),
		logger:     logger,
	}
}

// GetRoom 读取房间权威记录
func (c *RoomClient) GetRoom(ctx context.Context, roomID string) (*models.Room, error) {
	env, err := call(ctx, c.httpClient, http.MethodGet, "/room/"+roomID, nil)
	if err != nil {
		return nil, err
	}
	if !env.isSuccess() {
		return nil, envelopeError(env, "get room")
	}

	var room models.Room
	if err := json.Unmarshal(env.Data, &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}
	return &room, nil
}

type updateStatusRequest struct {
	Status          string `json:"status"`
	ExpectedVersion *int64 `json:"expected_version,omitempty"`
}

// UpdateStatus 写入房间状态。expectedVersion 非 nil 时为条件写入，
// 版本过期返回 ErrConflict。
func (c *RoomClient) UpdateStatus(ctx context.Context, roomID, status string, expectedVersion *int64) error {
	body := updateStatusRequest{Status: status, ExpectedVersion: expectedVersion}

	env, err := call(ctx, c.httpClient, http.MethodPut, "/room/"+roomID+"/status", body)
	if err != nil {
		return err
	}
	if !env.isSuccess() {
		return envelopeError(env, "update room status")
	}

	c.logger.Debug("Room status updated",
		zap.String("room_id", roomID),
		zap.String("status", status),
	)
	return nil
}
