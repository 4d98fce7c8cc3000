package models

// RosterEntry 排班记录，复合主键 (date, floor, room_id)。
// Completed 目前只随记录创建写入 false；延迟工作流不回写该字段。
type RosterEntry struct {
	Date          string `json:"date"` // YYYY-MM-DD
	Floor         int    `json:"floor"`
	RoomID        string `json:"room_id"`
	HousekeeperID string `json:"housekeeper_id"`
	Completed     bool   `json:"completed"`
}
