package httpapi

// Response 服务间 JSON 信封：
// - code: 2xx 区间为成功（与 HTTP 状态一致）
// - message: 失败原因（成功时可省略）
// - data: 业务数据
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Ok(code int, data any) Response {
	return Response{Code: code, Data: data}
}

func OkMessage(code int, message string, data any) Response {
	return Response{Code: code, Message: message, Data: data}
}

func Fail(code int, message string) Response {
	return Response{Code: code, Message: message}
}
