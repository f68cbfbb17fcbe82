package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuccessResponse 成功响应
type SuccessResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// JSONSuccess 返回成功响应
func JSONSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
	})
}

// JSONError 以 HTTP 状态码作为业务码返回错误响应
func JSONError(c *gin.Context, logger *zap.Logger, status int, message string, err error) {
	response := ErrorResponse{
		Code:    status,
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
		_ = c.Error(err)
		if logger != nil {
			logger.Warn(message,
				zap.Int("status", status),
				zap.String("request_id", c.GetString(RequestIDKey)),
				zap.Error(err),
			)
		}
	}
	c.AbortWithStatusJSON(status, response)
}
