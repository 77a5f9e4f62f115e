package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
)

// InterfaceSupportService 脚本客服
type InterfaceSupportService interface {
	Thread(ctx context.Context, userID uint) ([]models.SupportMessage, error)
	Ask(ctx context.Context, userID uint, content string) (*models.SupportMessage, error)
}

type cannedReply struct {
	keywords []string
	reply    string
}

// 按顺序匹配，第一个命中的关键字决定回复
var cannedReplies = []cannedReply{
	{
		keywords: []string{"otp", "code", "login"},
		reply:    "If your code has not arrived, wait a minute and request a new one. Codes expire after 5 minutes.",
	},
	{
		keywords: []string{"exercise"},
		reply:    "You can log today's exercise from the Exercise tab. Your family is notified when you finish.",
	},
	{
		keywords: []string{"contact", "family"},
		reply:    "To add a family member, open Contacts and enter their phone number. They must have signed in once.",
	},
	{
		keywords: []string{"message", "chat"},
		reply:    "Messages are delivered instantly when your contact is online and stay in your chat history.",
	},
}

const defaultSupportReply = "Thanks for reaching out. A member of our team will get back to you soon."

// SupportService 客服服务
type SupportService struct {
	DB     *gorm.DB
	Config *config.Config
	Relay  EventRelay
}

// NewSupportService 创建客服服务
func NewSupportService(db *gorm.DB, cfg *config.Config, relay EventRelay) InterfaceSupportService {
	return &SupportService{
		DB:     db,
		Config: cfg,
		Relay:  relay,
	}
}

// 1 Thread 用户的客服会话，按时间正序
func (s *SupportService) Thread(ctx context.Context, userID uint) ([]models.SupportMessage, error) {
	var messages []models.SupportMessage
	if err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, dbError(err)
	}
	return messages, nil
}

// 2 Ask 保存用户消息和自动回复，并推送 support:reply
func (s *SupportService) Ask(ctx context.Context, userID uint, content string) (*models.SupportMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, code.New(code.ErrContentRequired)
	}

	db := s.DB.WithContext(ctx)
	question := &models.SupportMessage{UserID: userID, FromUser: true, Content: content}
	if err := db.Create(question).Error; err != nil {
		return nil, dbError(err)
	}

	reply := &models.SupportMessage{UserID: userID, FromUser: false, Content: CannedReply(content)}
	if err := db.Create(reply).Error; err != nil {
		return nil, dbError(err)
	}

	s.Relay.Deliver(userID, realtime.EventSupportReply, reply)
	return reply, nil
}

// CannedReply 根据关键字选择回复
func CannedReply(content string) string {
	lower := strings.ToLower(content)
	for _, c := range cannedReplies {
		for _, k := range c.keywords {
			if strings.Contains(lower, k) {
				return c.reply
			}
		}
	}
	return defaultSupportReply
}
