package handlers

import (
	"context"
	"errors"
	"net/http"

	"amazonprice/internal/api"
	"amazonprice/internal/lookup"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ItemsHandler 商品查询与搜索接口
type ItemsHandler struct {
	logger   *zap.Logger
	executor api.Executor
	creds    api.Credentials
	country  string
}

// NewItemsHandler 创建商品处理器。country 为请求未指定国家时的默认站点。
func NewItemsHandler(logger *zap.Logger, executor api.Executor, creds api.Credentials, country string) *ItemsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemsHandler{
		logger:   logger,
		executor: executor,
		creds:    creds,
		country:  country,
	}
}

// LookupRequest GET /items/:id 的查询参数
type LookupRequest struct {
	EAN     bool   `form:"ean"`
	Index   string `form:"index"`
	Country string `form:"country"`
	Images  bool   `form:"images"`
}

// SearchRequest GET /search 的查询参数
type SearchRequest struct {
	Keywords string `form:"keywords" binding:"required"`
	Price    string `form:"price"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=0"`
	One      bool   `form:"one"`
	Images   bool   `form:"images"`
	Index    string `form:"index"`
	Node     string `form:"node"`
	Country  string `form:"country"`
}

// Lookup 按商品编号（或 ean=1 时按条码）查询单个商品
func (h *ItemsHandler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		JSONError(c, h.logger, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	id := c.Param("id")
	input := lookup.ByID(id)
	if req.EAN {
		input = lookup.ByEAN(id)
	}

	q := h.newQuery(input, req.Country).
		SearchIndex(req.Index).
		LoadImages(req.Images).
		One()

	result, err := q.Run(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if result.Item == nil {
		JSONError(c, h.logger, http.StatusNotFound, "item not found", nil)
		return
	}

	JSONSuccess(c, result.Value())
}

// Search 按关键词搜索商品
func (h *ItemsHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		JSONError(c, h.logger, http.StatusBadRequest, "invalid query parameters", err)
		return
	}

	q := h.newQuery(lookup.ByKeywords(req.Keywords), req.Country).
		Price(req.Price).
		Limit(req.Limit).
		One(req.One).
		LoadImages(req.Images).
		SearchIndex(req.Index).
		BrowseNode(req.Node)
	if req.Page > 0 {
		q.Page(req.Page)
	}

	result, err := q.Run(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	JSONSuccess(c, result.Value())
}

func (h *ItemsHandler) newQuery(input lookup.Input, country string) *lookup.Query {
	if country == "" {
		country = h.country
	}
	return lookup.New(input, h.executor,
		lookup.WithCredentials(h.creds),
		lookup.WithCountry(country),
		lookup.WithLogger(h.logger),
	)
}

// fail 把查询错误映射为 HTTP 状态码
func (h *ItemsHandler) fail(c *gin.Context, err error) {
	var (
		upstream *api.UpstreamError
		httpErr  *api.HTTPError
	)

	switch {
	case errors.As(err, &upstream):
		JSONError(c, h.logger, http.StatusBadGateway, "upstream rejected the request", err)
	case errors.As(err, &httpErr):
		JSONError(c, h.logger, http.StatusBadGateway, "upstream returned an error status", err)
	case errors.Is(err, api.ErrMissingCredentials):
		JSONError(c, h.logger, http.StatusServiceUnavailable, "credentials are not configured", err)
	case errors.Is(err, context.DeadlineExceeded):
		JSONError(c, h.logger, http.StatusGatewayTimeout, "upstream request timed out", err)
	default:
		JSONError(c, h.logger, http.StatusBadGateway, "upstream request failed", err)
	}
}
