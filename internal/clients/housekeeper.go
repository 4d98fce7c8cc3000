package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"hotel-housekeeping/internal/models"
)

// HousekeeperClient Housekeeper Registry 客户端
type HousekeeperClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewHousekeeperClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HousekeeperClient {
	return &HousekeeperClient{
		httpClient: newHTTPClient(baseURL, timeout),
		logger:     logger,
	}
}

// GetByFloor 查询某楼层的清洁工；无人时返回 ErrNotFound
func (c *HousekeeperClient) GetByFloor(ctx context.Context, floor int) (*models.Housekeeper, error) {
	env, err := call(ctx, c.httpClient, http.MethodGet, "/housekeeper/floor/"+strconv.Itoa(floor), nil)
	if err != nil {
		return nil, err
	}
	if !env.isSuccess() {
		return nil, envelopeError(env, "get housekeeper by floor")
	}

	var hk models.Housekeeper
	if err := json.Unmarshal(env.Data, &hk); err != nil {
		return nil, fmt.Errorf("failed to unmarshal housekeeper: %w", err)
	}
	return &hk, nil
}

type createHousekeeperRequest struct {
	Name  string `json:"name"`
	Floor int    `json:"floor"`
}

// Create 创建清洁工（自动补员用）
func (c *HousekeeperClient) Create(ctx context.Context, name string, floor int) (*models.Housekeeper, error) {
	body := createHousekeeperRequest{Name: name, Floor: floor}

	env, err := call(ctx, c.httpClient, http.MethodPost, "/housekeeper", body)
	if err != nil {
		return nil, err
	}
	if !env.isSuccess() {
		return nil, envelopeError(env, "create housekeeper")
	}

	var hk models.Housekeeper
	if err := json.Unmarshal(env.Data, &hk); err != nil {
		return nil, fmt.Errorf("failed to unmarshal housekeeper: %w", err)
	}

	c.logger.Info("Housekeeper auto-provisioned",
		zap.String("housekeeper_id", hk.HousekeeperID),
		zap.Int("floor", floor),
	)
	return &hk, nil
}
