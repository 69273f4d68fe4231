package api

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client 后端 HTTP 客户端（resty 封装）。
// 失败被归类为 NetworkError / HTTPStatusError / DecodeError，
// 调用方据此决定降级策略；这里不做重试（周期性任务本身就是重试机制）。
type Client struct {
	client *resty.Client
}

// NewClient 创建客户端
func NewClient(baseURL string) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")

	// resty 会自动从环境变量读取代理配置（HTTP_PROXY, HTTPS_PROXY）
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "fluxor-core/1.0")

	return &Client{client: client}
}

// GetJSON 发起 GET 请求并把响应体解码到 out。
// out 为 nil 时只检查状态码。
func (c *Client) GetJSON(ctx context.Context, endpoint string, params map[string]string, headers map[string]string, out any) error {
	r := c.client.R().SetContext(ctx)
	if params != nil {
		r.SetQueryParams(params)
	}
	if headers != nil {
		r.SetHeaders(headers)
	}

	resp, err := r.Get(endpoint)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if !resp.IsSuccess() {
		body := string(resp.Body())
		if len(body) > 256 {
			body = body[:256]
		}
		return &HTTPStatusError{StatusCode: resp.StatusCode(), Body: body}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
