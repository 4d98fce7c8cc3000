package service

import "fmt"

// FloorResolver 从房号推导楼层。楼层推导是一个领域约定而不是解析
// 技巧，所以做成可注入的映射，换楼栋编号规则时只换实现。
type FloorResolver interface {
	FloorOf(roomID string) (int, error)
}

// LeadingDigitResolver 默认实现：房号首位数字即楼层（"501" -> 5）
type LeadingDigitResolver struct{}

func (LeadingDigitResolver) FloorOf(roomID string) (int, error) {
	if roomID == "" {
		return 0, fmt.Errorf("room_id is required")
	}
	c := roomID[0]
	if c < '0' || c > '9' {
		return 0, fmt.Errorf("invalid room_id format: %q", roomID)
	}
	return int(c - '0'), nil
}
