package models

// Housekeeper 清洁工（固定负责一个楼层，不是每日排班）
type Housekeeper struct {
	HousekeeperID string `json:"housekeeper_id"`
	Name          string `json:"name"`
	Floor         int    `json:"floor"`
}
