package clients

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// BookingClient Booking Lookup 客户端。只读：回答某房间当前是否有
// 有效预订，用于清洁周期结束时推导最终状态。
type BookingClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

func NewBookingClient(baseURL string, timeout time.Duration, logger *zap.Logger) *BookingClient {
	return &BookingClient{
		httpClient: newHTTPClient(baseURL, timeout),
		logger:     logger,
	}
}

// HasActiveBooking 查询房间是否有有效预订；404 表示没有
func (c *BookingClient) HasActiveBooking(ctx context.Context, roomID string) (bool, error) {
	env, err := call(ctx, c.httpClient, http.MethodGet, "/booking/active/"+roomID, nil)
	if err != nil {
		return false, err
	}
	if env.isSuccess() {
		return true, nil
	}

	lookupErr := envelopeError(env, "booking lookup")
	if errors.Is(lookupErr, ErrNotFound) {
		return false, nil
	}
	return false, lookupErr
}
