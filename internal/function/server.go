package function

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"amazonprice/internal/api"
	"amazonprice/internal/config"
	"amazonprice/internal/function/handlers"
	"amazonprice/internal/task"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 服务器依赖
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Executor api.Executor
	Metrics  *api.Metrics
	// Results 监控任务最近一次执行结果，未启用监控时为 nil
	Results func() map[string]task.Result
}

// Server HTTP 服务器
type Server struct {
	config       *config.ServerConfig
	router       *gin.Engine
	logger       *zap.Logger
	httpServer   *http.Server
	dependencies *Dependencies
}

// NewServer 创建新的 HTTP 服务器
func NewServer(cfg *config.ServerConfig, logger *zap.Logger, deps *Dependencies) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 设置 gin 模式
	gin.SetMode(cfg.Mode)

	router := gin.New()
	router.Use(handlers.RequestID())
	router.Use(ginLogger(logger))
	router.Use(gin.Recovery())

	server := &Server{
		config:       cfg,
		router:       router,
		logger:       logger,
		dependencies: deps,
	}

	NewRouter(router, logger, deps).SetupRoutes()

	server.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server
}

// Handler 返回路由，便于测试或挂载到其他服务器
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start 在后台启动服务器；监听失败通过返回的 channel 报告
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	if !s.config.Enabled {
		s.logger.Info("HTTP server is disabled, skipping startup")
		return errCh
	}

	s.logger.Info("starting HTTP server",
		zap.String("host", s.config.Host),
		zap.Int("port", s.config.Port),
		zap.String("mode", s.config.Mode),
	)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server failed", zap.Error(err))
			errCh <- err
		}
	}()

	return errCh
}

// Stop 停止服务器
func (s *Server) Stop(ctx context.Context) error {
	if !s.config.Enabled {
		return nil
	}

	s.logger.Info("shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("error shutting down HTTP server", zap.Error(err))
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// ginLogger 请求日志中间件
func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		fields := []zap.Field{
			zap.String("request_id", c.GetString(handlers.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.String()))
		}

		logger.Info("HTTP request", fields...)
	}
}
