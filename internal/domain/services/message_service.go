package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
)

// historyLimit 单个会话最多返回的消息数
const historyLimit = 200

// InterfaceMessageService 聊天消息
type InterfaceMessageService interface {
	History(ctx context.Context, userID, contactID uint) ([]models.Message, error)
	SendDirect(ctx context.Context, sender *models.User, recipientID uint, content string) (*models.Message, error)
	SendGroup(ctx context.Context, sender *models.User, content string) (int, error)
}

// MessageEvent message:new 推送内容
type MessageEvent struct {
	ID          uint      `json:"id"`
	SenderID    uint      `json:"senderId"`
	SenderName  string    `json:"senderName"`
	RecipientID *uint     `json:"recipientId"`
	IsGroup     bool      `json:"isGroup"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MessageService 消息服务
type MessageService struct {
	DB       *gorm.DB
	Config   *config.Config
	Contacts InterfaceContactService
	Relay    EventRelay
}

// NewMessageService 创建消息服务
func NewMessageService(db *gorm.DB, cfg *config.Config, contacts InterfaceContactService, relay EventRelay) InterfaceMessageService {
	return &MessageService{
		DB:       db,
		Config:   cfg,
		Contacts: contacts,
		Relay:    relay,
	}
}

// 1 History 与某个联系人之间的双向消息，按时间正序
func (s *MessageService) History(ctx context.Context, userID, contactID uint) ([]models.Message, error) {
	if contactID == 0 {
		return nil, code.New(code.ErrInvalidContactID)
	}

	var messages []models.Message
	err := s.DB.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, contactID, contactID, userID).
		Order("created_at DESC, id DESC").
		Limit(historyLimit).
		Find(&messages).Error
	if err != nil {
		return nil, dbError(err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// 2 SendDirect 发送给单个联系人
func (s *MessageService) SendDirect(ctx context.Context, sender *models.User, recipientID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, code.New(code.ErrContentRequired)
	}
	if recipientID == 0 {
		return nil, code.New(code.ErrRecipientRequired)
	}

	ok, err := s.Contacts.IsContact(ctx, sender.ID, recipientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, code.New(code.ErrNotAContact)
	}

	msg := &models.Message{SenderID: sender.ID, RecipientID: &recipientID, Content: content}
	if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, dbError(err)
	}

	s.Relay.Deliver(recipientID, realtime.EventMessageNew, newMessageEvent(msg, sender))
	return msg, nil
}

// 3 SendGroup 群发给所有联系人：每人一行，逐条写入，中途失败不回滚
func (s *MessageService) SendGroup(ctx context.Context, sender *models.User, content string) (int, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0, code.New(code.ErrContentRequired)
	}

	var recipientIDs []uint
	if err := s.DB.WithContext(ctx).Model(&models.Contact{}).
		Where("user_id = ?", sender.ID).
		Order("contact_id ASC").
		Pluck("contact_id", &recipientIDs).Error; err != nil {
		return 0, dbError(err)
	}

	sent := 0
	for _, id := range recipientIDs {
		recipientID := id
		msg := &models.Message{SenderID: sender.ID, RecipientID: &recipientID, IsGroup: true, Content: content}
		if err := s.DB.WithContext(ctx).Create(msg).Error; err != nil {
			return sent, dbError(err)
		}
		s.Relay.Deliver(recipientID, realtime.EventMessageNew, newMessageEvent(msg, sender))
		sent++
	}
	return sent, nil
}

func newMessageEvent(msg *models.Message, sender *models.User) MessageEvent {
	return MessageEvent{
		ID:          msg.ID,
		SenderID:    msg.SenderID,
		SenderName:  sender.Name,
		RecipientID: msg.RecipientID,
		IsGroup:     msg.IsGroup,
		Content:     msg.Content,
		CreatedAt:   msg.CreatedAt,
	}
}
