package services

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
)

// InterfaceSettingsService 通知开关
type InterfaceSettingsService interface {
	GetSettings(ctx context.Context, userID uint) (*models.Settings, error)
	UpdateSettings(ctx context.Context, userID uint, update SettingsUpdate) (*models.Settings, error)
}

// SettingsUpdate 部分更新，nil 表示保持不变
type SettingsUpdate struct {
	MessageNotify            *bool `json:"message_notify"`
	ExerciseReminder         *bool `json:"exercise_reminder"`
	FamilyNotifyParentDone   *bool `json:"family_notify_parent_done"`
	FamilyNotifyParentMissed *bool `json:"family_notify_parent_missed"`
}

// SettingsService 设置服务
type SettingsService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewSettingsService 创建设置服务
func NewSettingsService(db *gorm.DB, cfg *config.Config) InterfaceSettingsService {
	return &SettingsService{
		DB:     db,
		Config: cfg,
	}
}

// 1 GetSettings 没有记录时返回默认值（全部开启）
func (s *SettingsService) GetSettings(ctx context.Context, userID uint) (*models.Settings, error) {
	var settings models.Settings
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSettings(userID)
		return &defaults, nil
	}
	if err != nil {
		return nil, dbError(err)
	}
	return &settings, nil
}

// 2 UpdateSettings 合并部分更新后整行写入
func (s *SettingsService) UpdateSettings(ctx context.Context, userID uint, update SettingsUpdate) (*models.Settings, error) {
	settings, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.MessageNotify != nil {
		settings.MessageNotify = *update.MessageNotify
	}
	if update.ExerciseReminder != nil {
		settings.ExerciseReminder = *update.ExerciseReminder
	}
	if update.FamilyNotifyParentDone != nil {
		settings.FamilyNotifyParentDone = *update.FamilyNotifyParentDone
	}
	if update.FamilyNotifyParentMissed != nil {
		settings.FamilyNotifyParentMissed = *update.FamilyNotifyParentMissed
	}

	err = s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"message_notify", "exercise_reminder",
			"family_notify_parent_done", "family_notify_parent_missed", "updated_at",
		}),
	}).Create(settings).Error
	if err != nil {
		return nil, dbError(err)
	}
	return settings, nil
}
