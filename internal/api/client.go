package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// OperationItemLookup 按商品编号查询
	OperationItemLookup = "ItemLookup"
	// OperationItemSearch 按关键词搜索
	OperationItemSearch = "ItemSearch"
)

// Request 一次签名调用所需的全部信息
type Request struct {
	Credentials Credentials
	Host        string // 为空时使用 DefaultHost
	Operation   string
	Params      map[string]string
}

// Executor 执行签名请求并返回解析后的响应文档
type Executor interface {
	Execute(ctx context.Context, req Request) (any, error)
}

// Client 商品广告接口客户端
type Client struct {
	scheme     string
	httpClient *http.Client
	metrics    *Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// Config API 客户端配置
type Config struct {
	Scheme     string // 默认 https
	Timeout    time.Duration
	HTTPClient *http.Client
	Metrics    *Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewClient 创建新的 API 客户端
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Scheme == "" {
		cfg.Scheme = "https"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
		}
	}

	return &Client{
		scheme:     cfg.Scheme,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		now:        cfg.Now,
	}
}

// SignedURL 构建带签名的完整请求 URL
func (c *Client) SignedURL(req Request) (string, error) {
	if req.Credentials.AccessKeyID == "" || req.Credentials.SecretKey == "" {
		return "", ErrMissingCredentials
	}

	host := req.Host
	if host == "" {
		host = DefaultHost
	}

	query := signedQuery(req.Credentials, host, req.Operation, req.Params, c.now())
	return fmt.Sprintf("%s://%s%s?%s", c.scheme, host, RequestPath, query), nil
}

// Execute 执行请求并将 XML 响应解析为通用树
func (c *Client) Execute(ctx context.Context, req Request) (any, error) {
	start := time.Now()

	doc, err := c.execute(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	c.metrics.Observe(req.Operation, outcome, time.Since(start))

	return doc, err
}

func (c *Client) execute(ctx context.Context, req Request) (any, error) {
	if c.logger != nil {
		c.logger.Debug("sending API request",
			zap.String("operation", req.Operation),
			zap.String("host", req.Host),
			zap.Any("params", req.Params),
		)
	}

	// 1. 签名并构建 URL
	finalURL, err := c.SignedURL(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("failed to sign request", zap.Error(err))
		}
		return nil, err
	}

	// 2. 创建 HTTP 请求（使用 context 支持超时和取消）
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("failed to create request", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "amazon-price/1.0")
	httpReq.Header.Set("Accept", "application/xml")

	// 3. 发送请求
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("HTTP request failed",
				zap.String("operation", req.Operation),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// 4. 检查响应状态码
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if c.logger != nil {
			c.logger.Error("HTTP response error",
				zap.Int("status_code", resp.StatusCode),
				zap.String("status", resp.Status),
				zap.String("operation", req.Operation),
			)
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	// 5. 解析响应体
	doc, err := DecodeXML(resp.Body)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("failed to decode response body",
				zap.String("operation", req.Operation),
				zap.Error(err),
			)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("API request succeeded",
			zap.String("operation", req.Operation),
			zap.Int("status_code", resp.StatusCode),
		)
	}

	return doc, nil
}
