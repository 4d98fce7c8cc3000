// Package clients 封装对协作服务（room/housekeeper/roster/booking）的 RPC 调用。
// 所有调用都走 {code, message, data} JSON 信封；code 在 2xx 区间视为成功。
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrNotFound 协作服务返回 404
	ErrNotFound = errors.New("not found")
	// ErrConflict 协作服务返回 409
	ErrConflict = errors.New("conflict")
)

// Envelope 服务间 JSON 信封
type Envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Envelope) isSuccess() bool {
	return e.Code >= 200 && e.Code < 300
}

// newHTTPClient 按统一配置创建 resty 客户端
func newHTTPClient(baseURL string, timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
}

// call 执行请求并解析信封。HTTP 非 2xx 的响应体同样按信封解析，
// 信封缺失 code 时回退到 HTTP 状态码（兼容只回纯 JSON 的服务）。
func call(ctx context.Context, client *resty.Client, method, path string, body any) (*Envelope, error) {
	req := client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("invocation of service fails: %s %s: %w", method, path, err)
	}

	env := &Envelope{}
	if len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), env); err != nil {
			return nil, fmt.Errorf("invalid JSON output from service: %s %s: %w", method, path, err)
		}
	}
	if env.Code == 0 {
		env.Code = resp.StatusCode()
		if env.Code == 0 {
			env.Code = http.StatusInternalServerError
		}
	}
	return env, nil
}

// envelopeError 把失败信封映射为哨兵错误
func envelopeError(env *Envelope, op string) error {
	switch env.Code {
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case http.StatusConflict:
		return fmt.Errorf("%s: %s: %w", op, env.Message, ErrConflict)
	default:
		return fmt.Errorf("%s: service returned code %d: %s", op, env.Code, env.Message)
	}
}
