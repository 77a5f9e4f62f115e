package models

import "time"

// Settings 用户通知开关
type Settings struct {
	UserID                   uint      `gorm:"primaryKey;autoIncrement:false" json:"-"`
	MessageNotify            bool      `gorm:"not null" json:"message_notify"`
	ExerciseReminder         bool      `gorm:"not null" json:"exercise_reminder"`
	FamilyNotifyParentDone   bool      `gorm:"not null" json:"family_notify_parent_done"`
	FamilyNotifyParentMissed bool      `gorm:"not null" json:"family_notify_parent_missed"`
	UpdatedAt                time.Time `json:"-"`
}

// DefaultSettings 没有设置记录时使用的默认值
func DefaultSettings(userID uint) Settings {
	return Settings{
		UserID:                   userID,
		MessageNotify:            true,
		ExerciseReminder:         true,
		FamilyNotifyParentDone:   true,
		FamilyNotifyParentMissed: true,
	}
}

// TableName 设置表名
func (Settings) TableName() string {
	return "settings"
}
