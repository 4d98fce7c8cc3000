package models

import "time"

// 清洁周期的两个阶段
const (
	StageComplete = 1 // CLEANING -> COMPLETED
	StageResolve  = 2 // COMPLETED -> OCCUPIED/VACANT
)

// CleaningTask 延迟任务（持久化到调度器，至少执行一次）。
// CycleID 标识一次清洁周期；取消周期会移除其未到期的任务。
// ExpectedVersion 是该阶段写房间状态时要求的版本号，版本不匹配说明
// 周期外有写入，任务放弃而不是覆盖。
type CleaningTask struct {
	TaskID          string    `json:"task_id"`
	CycleID         string    `json:"cycle_id"`
	RoomID          string    `json:"room_id"`
	Stage           int       `json:"stage"`
	DueAt           time.Time `json:"due_at"`
	ExpectedVersion int64     `json:"expected_version"`
}
