package task

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Task 定时任务接口
type Task interface {
	// Name 任务名称，在注册表中唯一
	Name() string

	// Schedule 带秒的 cron 表达式，例如 "0 */5 * * * *"
	Schedule() string

	// Run 执行一次任务，ctx 带有超时
	Run(ctx context.Context) error

	// Timeout 单次执行的超时时间，0 表示使用调度器默认值
	Timeout() time.Duration

	// Enabled 是否启用
	Enabled() bool
}

// Result 一次任务执行的结果
type Result struct {
	TaskName  string        `json:"task"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// Success 执行是否成功
func (r Result) Success() bool { return r.Error == "" }

// Registry 任务注册表，可并发使用
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]Task
}

// NewRegistry 创建任务注册表
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]Task),
	}
}

// Register 注册任务
func (r *Registry) Register(t Task) error {
	if t == nil {
		return ErrNilTask
	}
	name := t.Name()
	if name == "" {
		return ErrEmptyTaskName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[name]; exists {
		return fmt.Errorf("%w: %s", ErrTaskAlreadyRegistered, name)
	}
	r.tasks[name] = t
	return nil
}

// Get 按名称获取任务
func (r *Registry) Get(name string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}
	return t, nil
}

// Names 返回所有任务名（按名称排序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.tasks)
	sort.Strings(names)
	return names
}

// Enabled 返回所有启用的任务（按名称排序）
func (r *Registry) Enabled() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	enabled := lo.Filter(lo.Values(r.tasks), func(t Task, _ int) bool {
		return t.Enabled()
	})
	sort.Slice(enabled, func(i, j int) bool {
		return enabled[i].Name() < enabled[j].Name()
	})
	return enabled
}
