package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
	"github.com/kingnahee2-droid/CareWell/pkg/utils"
)

// InterfaceContactService 联系人关系
type InterfaceContactService interface {
	ListContacts(ctx context.Context, userID uint) ([]models.ContactView, error)
	AddContactByPhone(ctx context.Context, user *models.User, phone string) (*models.ContactView, error)
	IsContact(ctx context.Context, userID, otherID uint) (bool, error)
	ContactsWithRole(ctx context.Context, userID uint, role models.Role) ([]models.User, error)
}

// ContactAddedEvent contact:added 推送内容
type ContactAddedEvent struct {
	Contact models.ContactView `json:"contact"`
}

// ContactService 联系人服务
type ContactService struct {
	DB       *gorm.DB
	Config   *config.Config
	Relay    EventRelay
	Presence PresenceChecker
}

// NewContactService 创建联系人服务
func NewContactService(db *gorm.DB, cfg *config.Config, relay EventRelay, presence PresenceChecker) InterfaceContactService {
	return &ContactService{
		DB:       db,
		Config:   cfg,
		Relay:    relay,
		Presence: presence,
	}
}

// 1 ListContacts 我的联系人，按姓名排序并带在线状态
func (s *ContactService) ListContacts(ctx context.Context, userID uint) ([]models.ContactView, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Joins("JOIN contacts ON contacts.contact_id = users.id").
		Where("contacts.user_id = ?", userID).
		Order("users.name ASC, users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, dbError(err)
	}

	views := make([]models.ContactView, 0, len(users))
	for i := range users {
		views = append(views, s.view(&users[i]))
	}
	return views, nil
}

// 2 AddContactByPhone 按手机号建立双向联系人，重复添加幂等
func (s *ContactService) AddContactByPhone(ctx context.Context, user *models.User, phone string) (*models.ContactView, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, code.New(code.ErrPhoneRequired)
	}
	phone = utils.NormalizePhone(phone)

	db := s.DB.WithContext(ctx)

	var target models.User
	if err := db.Where("phone = ?", phone).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrUserNotFound)
		}
		return nil, dbError(err)
	}
	if target.ID == user.ID {
		return nil, code.New(code.ErrCannotAddSelf)
	}

	edges := []models.Contact{
		{UserID: user.ID, ContactID: target.ID},
		{UserID: target.ID, ContactID: user.ID},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edges).Error; err != nil {
		return nil, dbError(err)
	}

	s.Relay.Deliver(target.ID, realtime.EventContactAdded, ContactAddedEvent{Contact: s.view(user)})

	view := s.view(&target)
	return &view, nil
}

// 3 IsContact 是否存在 userID -> otherID 的联系人边
func (s *ContactService) IsContact(ctx context.Context, userID, otherID uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Contact{}).
		Where("user_id = ? AND contact_id = ?", userID, otherID).
		Count(&count).Error; err != nil {
		return false, dbError(err)
	}
	return count > 0, nil
}

// 4 ContactsWithRole 指定角色的联系人
func (s *ContactService) ContactsWithRole(ctx context.Context, userID uint, role models.Role) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Joins("JOIN contacts ON contacts.contact_id = users.id").
		Where("contacts.user_id = ? AND users.role = ?", userID, role).
		Order("users.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, dbError(err)
	}
	return users, nil
}

func (s *ContactService) view(u *models.User) models.ContactView {
	return models.ContactView{
		ID:     u.ID,
		Name:   u.Name,
		Phone:  u.Phone,
		Role:   u.Role,
		Online: s.Presence.IsOnline(u.ID),
	}
}
