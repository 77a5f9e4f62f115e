package models

import "time"

// ExerciseRecord 运动记录
type ExerciseRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index:idx_exercise_user_date" json:"userId"`
	Date       string    `gorm:"type:varchar(10);not null;index:idx_exercise_user_date" json:"date"`
	Type       string    `gorm:"type:varchar(50);not null" json:"type"`
	Duration   int       `gorm:"not null" json:"duration"`
	Fatigue    int       `gorm:"not null" json:"fatigue"`
	Difficulty int       `gorm:"not null" json:"difficulty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DaySummary 单日汇总
type DaySummary struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
	Minutes  int    `json:"minutes"`
}

// ExerciseSummary 区间汇总
type ExerciseSummary struct {
	From              string         `json:"from"`
	To                string         `json:"to"`
	Sessions          int            `json:"sessions"`
	ActiveDays        int            `json:"activeDays"`
	TotalMinutes      int            `json:"totalMinutes"`
	AverageFatigue    float64        `json:"averageFatigue"`
	AverageDifficulty float64        `json:"averageDifficulty"`
	ByType            map[string]int `json:"byType"`
	Days              []DaySummary   `json:"days"`
}
