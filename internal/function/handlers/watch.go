package handlers

import (
	"sort"

	"amazonprice/internal/task"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// WatchHandler 监控任务状态接口
type WatchHandler struct {
	results func() map[string]task.Result
}

// NewWatchHandler 创建监控任务处理器；results 为 nil 时返回空列表
func NewWatchHandler(results func() map[string]task.Result) *WatchHandler {
	return &WatchHandler{results: results}
}

// Results 返回每个监控任务最近一次执行结果，按任务名排序
func (h *WatchHandler) Results(c *gin.Context) {
	if h.results == nil {
		JSONSuccess(c, []task.Result{})
		return
	}

	list := lo.Values(h.results())
	sort.Slice(list, func(i, j int) bool {
		return list[i].TaskName < list[j].TaskName
	})
	JSONSuccess(c, list)
}
