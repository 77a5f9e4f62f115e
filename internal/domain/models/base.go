package models

import "time"

// BaseModel 通用主键和时间戳
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DateLayout 运动记录日期格式
const DateLayout = "2006-01-02"

// AllModels 返回需要自动迁移的所有模型
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Contact{},
		&Message{},
		&ExerciseRecord{},
		&Settings{},
		&OTP{},
		&SupportMessage{},
	}
}
