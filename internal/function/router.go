package function

import (
	"net/http"

	"amazonprice/internal/api"
	"amazonprice/internal/function/handlers"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router 路由管理器
type Router struct {
	router       *gin.Engine
	logger       *zap.Logger
	dependencies *Dependencies
}

// NewRouter 创建路由管理器
func NewRouter(router *gin.Engine, logger *zap.Logger, deps *Dependencies) *Router {
	if deps == nil {
		deps = &Dependencies{}
	}
	return &Router{
		router:       router,
		logger:       logger,
		dependencies: deps,
	}
}

// SetupRoutes 设置所有路由
func (r *Router) SetupRoutes() {
	r.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if r.dependencies.Metrics != nil {
		r.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.dependencies.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.router.Group("/api/v1")
	{
		if r.dependencies.Executor != nil {
			var (
				creds   api.Credentials
				country string
			)
			if cfg := r.dependencies.Config; cfg != nil {
				creds = cfg.PAAPI.Credentials()
				country = cfg.PAAPI.Country
			}

			items := handlers.NewItemsHandler(r.logger, r.dependencies.Executor, creds, country)
			v1.GET("/items/:id", items.Lookup)
			v1.GET("/search", items.Search)
		}

		watch := handlers.NewWatchHandler(r.dependencies.Results)
		v1.GET("/watch", watch.Results)
	}
}
