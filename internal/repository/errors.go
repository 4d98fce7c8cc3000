package repository

import "errors"

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrVersionConflict 状态版本不匹配（过期写入）
	ErrVersionConflict = errors.New("status version conflict")
	// ErrDuplicate 主键冲突
	ErrDuplicate = errors.New("duplicate key")
)
