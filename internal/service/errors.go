package service

import "fmt"

// 错误分类：
// - ValidationError  调用方参数问题，无副作用
// - NotFoundError    房间等必需资源不存在，无副作用
// - ConflictError    楼层不一致 / 状态版本过期
// - DependencyError  协作服务调用失败（仅强制写入路径会上抛）

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("dependency failure during %s: %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error { return e.Err }
