package api

import (
	"errors"
	"fmt"
)

// NetworkError 传输层错误（无连接、超时）
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPStatusError 非 2xx 状态码
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// DecodeError 响应体解码失败（格式不符合预期）
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNetworkError 判断是否为传输层错误
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsHTTPStatusError 判断是否为状态码错误
func IsHTTPStatusError(err error) bool {
	var se *HTTPStatusError
	return errors.As(err, &se)
}

// IsDecodeError 判断是否为解码错误
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
