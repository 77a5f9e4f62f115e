package models

import "time"

// OTP 一次性验证码，每个手机号只有一条有效记录
type OTP struct {
	Phone     string    `gorm:"type:varchar(20);primaryKey"`
	Code      string    `gorm:"type:varchar(6);not null"`
	ExpiresAt int64     `gorm:"not null"` // unix 秒
	CreatedAt time.Time
}

// TableName OTP表名
func (OTP) TableName() string {
	return "otps"
}
