package models

import "time"

// SupportMessage 客服会话消息
type SupportMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	FromUser  bool      `gorm:"not null" json:"fromUser"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
