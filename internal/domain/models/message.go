package models

import "time"

// Message 聊天消息。群发时每个接收人各存一行
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index" json:"senderId"`
	RecipientID *uint     `gorm:"index" json:"recipientId"`
	IsGroup     bool      `gorm:"not null" json:"isGroup"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}
