package task

import "errors"

// 注册表错误，调用方用 errors.Is 判断
var (
	ErrNilTask               = errors.New("task is nil")
	ErrEmptyTaskName         = errors.New("task name cannot be empty")
	ErrTaskAlreadyRegistered = errors.New("task already registered")
	ErrTaskNotFound          = errors.New("task not found")
)
