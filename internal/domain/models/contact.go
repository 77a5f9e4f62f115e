package models

import "time"

// Contact 单向联系人边，一对联系人以两行存储
type Contact struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_contact_pair" json:"userId"`
	ContactID uint      `gorm:"not null;uniqueIndex:idx_contact_pair;index" json:"contactId"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactView 联系人列表项
type ContactView struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Role   Role   `json:"role"`
	Online bool   `json:"online"`
}
