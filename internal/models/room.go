package models

// Room 房间（Room Registry 的权威记录）
// Status 只能通过 update-status 写入；StatusVersion 每次写入自增，
// 作为清洁周期的 owner token，用于拒绝过期写入。
type Room struct {
	RoomID        string `json:"room_id"`
	Floor         int    `json:"floor"`
	RoomType      string `json:"room_type,omitempty"`
	Status        string `json:"status"`
	StatusVersion int64  `json:"status_version"`
}

// 房间状态。COMPLETED 是清洁周期内的瞬态标记，不是对外的稳定状态。
const (
	StatusVacant    = "VACANT"
	StatusOccupied  = "OCCUPIED"
	StatusCleaning  = "CLEANING"
	StatusCompleted = "COMPLETED"
)

// IsValidStatus 校验状态取值
func IsValidStatus(s string) bool {
	switch s {
	case StatusVacant, StatusOccupied, StatusCleaning, StatusCompleted:
		return true
	}
	return false
}
