package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
)

// RosterClient Roster Ledger 客户端
type RosterClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewRosterClient(baseURL string, timeout time.Duration, logger *zap.Logger) *RosterClient {
	return &RosterClient{
		httpClient: newHTTPClient(baseURL, timeout),
		logger:     logger,
	}
}

type rosterListData struct {
	Date   string               `json:"date"`
	Roster []models.RosterEntry `json:"roster"`
}

// EntriesFor 读取某天的排班；没有排班时返回空列表（不视为错误）
func (c *RosterClient) EntriesFor(ctx context.Context, date string) ([]models.RosterEntry, error) {
	env, err := call(ctx, c.httpClient, http.MethodGet, "/roster/"+date, nil)
	if err != nil {
		return nil, err
	}
	if !env.isSuccess() {
		listErr := envelopeError(env, "get roster")
		if errors.Is(listErr, ErrNotFound) {
			return nil, nil
		}
		return nil, listErr
	}

	var data rosterListData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roster: %w", err)
	}
	return data.Roster, nil
}

// Add 写入排班记录。主键已存在按幂等成功处理（alreadyExists=true）。
func (c *RosterClient) Add(ctx context.Context, entry models.RosterEntry) (alreadyExists bool, err error) {
	env, err := call(ctx, c.httpClient, http.MethodPost, "/roster/new", entry)
	if err != nil {
		return false, err
	}
	if env.isSuccess() {
		var data struct {
			AlreadyExists bool `json:"already_exists"`
		}
		if len(env.Data) > 0 {
			_ = json.Unmarshal(env.Data, &data)
		}
		return data.AlreadyExists, nil
	}

	addErr := envelopeError(env, "add roster entry")
	if errors.Is(addErr, ErrConflict) {
		c.logger.Debug("Roster entry already present",
			zap.String("date", entry.Date),
			zap.String("room_id", entry.RoomID),
		)
		return true, nil
	}
	return false, addErr
}
