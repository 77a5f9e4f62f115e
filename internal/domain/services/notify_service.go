package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
)

// DefaultReminderMessage 手动提醒的默认内容
const DefaultReminderMessage = "Time for your exercise today!"

// InterfaceNotifyService 通知扇出
type InterfaceNotifyService interface {
	ExerciseCompleted(ctx context.Context, user *models.User, record *models.ExerciseRecord) int
	RemindParents(ctx context.Context, sender *models.User, parentID uint, message string) (int, error)
}

// ExerciseCompletedEvent exercise:completed 推送内容
type ExerciseCompletedEvent struct {
	UserID   uint   `json:"userId"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	Fatigue  int    `json:"fatigue"`
	Date     string `json:"date"`
}

// ExerciseReminderEvent exercise:reminder 推送内容
type ExerciseReminderEvent struct {
	FromUserID uint   `json:"fromUserId"`
	FromName   string `json:"fromName"`
	Message    string `json:"message"`
}

// NotifyService 根据联系人关系和通知开关推送事件
type NotifyService struct {
	Contacts InterfaceContactService
	Settings InterfaceSettingsService
	Relay    EventRelay
}

// NewNotifyService 创建通知服务
func NewNotifyService(contacts InterfaceContactService, settings InterfaceSettingsService, relay EventRelay) InterfaceNotifyService {
	return &NotifyService{
		Contacts: contacts,
		Settings: settings,
		Relay:    relay,
	}
}

// 1 ExerciseCompleted 老人完成运动后通知所有家属联系人，返回推送次数。
// 读取设置失败视为关闭通知，不向调用方报错
func (s *NotifyService) ExerciseCompleted(ctx context.Context, user *models.User, record *models.ExerciseRecord) int {
	if user.Role != models.RoleElderly {
		return 0
	}

	settings, err := s.Settings.GetSettings(ctx, user.ID)
	if err != nil {
		Logger.L().Warn("exercise fan-out skipped: settings unavailable", zap.Uint("user_id", user.ID), zap.Error(err))
		return 0
	}
	if !settings.FamilyNotifyParentDone {
		return 0
	}

	family, err := s.Contacts.ContactsWithRole(ctx, user.ID, models.RoleFamily)
	if err != nil {
		Logger.L().Warn("exercise fan-out skipped: contacts unavailable", zap.Uint("user_id", user.ID), zap.Error(err))
		return 0
	}

	event := ExerciseCompletedEvent{
		UserID:   user.ID,
		Name:     user.Name,
		Type:     record.Type,
		Duration: record.Duration,
		Fatigue:  record.Fatigue,
		Date:     record.Date,
	}
	for _, f := range family {
		s.Relay.Deliver(f.ID, realtime.EventExerciseCompleted, event)
	}
	return len(family)
}

// 2 RemindParents 家属手动提醒老人运动。parentID 为0时提醒所有老人联系人。
// 关闭了运动提醒的老人不推送
func (s *NotifyService) RemindParents(ctx context.Context, sender *models.User, parentID uint, message string) (int, error) {
	if sender.Role != models.RoleFamily {
		return 0, code.New(code.ErrForbidden)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		message = DefaultReminderMessage
	}

	parents, err := s.Contacts.ContactsWithRole(ctx, sender.ID, models.RoleElderly)
	if err != nil {
		return 0, err
	}
	if parentID != 0 {
		var target []models.User
		for _, p := range parents {
			if p.ID == parentID {
				target = append(target, p)
			}
		}
		if len(target) == 0 {
			return 0, code.New(code.ErrNotAContact)
		}
		parents = target
	}

	event := ExerciseReminderEvent{FromUserID: sender.ID, FromName: sender.Name, Message: message}
	sent := 0
	for _, p := range parents {
		settings, err := s.Settings.GetSettings(ctx, p.ID)
		if err != nil {
			Logger.L().Warn("reminder skipped: settings unavailable", zap.Uint("user_id", p.ID), zap.Error(err))
			continue
		}
		if !settings.ExerciseReminder {
			continue
		}
		s.Relay.Deliver(p.ID, realtime.EventExerciseReminder, event)
		sent++
	}
	return sent, nil
}
