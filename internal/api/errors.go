package api

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials 缺少 access key 或 secret
	ErrMissingCredentials = errors.New("access key id and secret key are required")

	// ErrEmptyResponse 响应体为空或不包含任何元素
	ErrEmptyResponse = errors.New("empty response document")
)

// HTTPError 非 2xx 响应
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP error: status code %d", e.StatusCode)
}

// UpstreamError 响应文档中携带的接口错误信息
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return e.Message
}
