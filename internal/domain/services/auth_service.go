package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/error/code"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
	"github.com/kingnahee2-droid/CareWell/pkg/utils"
)

const otpLength = 6

// InterfaceAuthService 手机号 + 验证码登录
type InterfaceAuthService interface {
	RequestOTP(ctx context.Context, req RequestOTPInput) (*OTPResult, error)
	VerifyOTP(ctx context.Context, phone, otpCode string) (*models.User, error)
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

// RequestOTPInput 申请验证码参数，Name 和 Role 可为空
type RequestOTPInput struct {
	Phone string
	Name  string
	Role  string
}

// OTPResult 验证码签发结果
type OTPResult struct {
	User      *models.User
	Code      string
	ExpiresAt time.Time
}

// AuthService 认证服务
type AuthService struct {
	DB     *gorm.DB
	Config *config.Config
	SMS    InterfaceSMSService
	Now    Clock
}

// NewAuthService 创建认证服务
func NewAuthService(db *gorm.DB, cfg *config.Config, sms InterfaceSMSService) InterfaceAuthService {
	return &AuthService{
		DB:     db,
		Config: cfg,
		SMS:    sms,
		Now:    time.Now,
	}
}

// 1 RequestOTP 首次请求时创建用户，签发新的验证码并覆盖旧码
func (s *AuthService) RequestOTP(ctx context.Context, req RequestOTPInput) (*OTPResult, error) {
	if strings.TrimSpace(req.Phone) == "" {
		return nil, code.New(code.ErrPhoneRequired)
	}
	phone := utils.NormalizePhone(req.Phone)
	if !utils.IsValidPhone(phone) {
		return nil, code.New(code.ErrInvalidPhone)
	}
	role := models.Role(strings.TrimSpace(req.Role))
	if role != "" && !role.Valid() {
		return nil, code.New(code.ErrInvalidRole)
	}
	name := strings.TrimSpace(req.Name)

	db := s.DB.WithContext(ctx)

	var user models.User
	err := db.Where("phone = ?", phone).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: name, Phone: phone, Role: role}
		if user.Name == "" {
			user.Name = phone
		}
		if user.Role == "" {
			user.Role = models.RoleElderly
		}
		if err := db.Create(&user).Error; err != nil {
			return nil, dbError(err)
		}
	case err != nil:
		return nil, dbError(err)
	}
	// 已有用户的 name/role 不随未认证的请求变更

	otpCode, err := utils.RandomDigits(otpLength)
	if err != nil {
		return nil, code.Wrap(code.ErrInternal, err)
	}
	now := s.Now()
	expiresAt := now.Add(s.Config.OTPTTL)

	otp := models.OTP{Phone: phone, Code: otpCode, ExpiresAt: expiresAt.Unix(), CreatedAt: now}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phone"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
	}).Create(&otp).Error; err != nil {
		return nil, dbError(err)
	}

	if err := s.SMS.SendOTP(ctx, phone, otpCode); err != nil {
		Logger.L().Warn("otp delivery failed", zap.String("phone", phone), zap.Error(err))
	}

	return &OTPResult{User: &user, Code: otpCode, ExpiresAt: expiresAt}, nil
}

// 2 VerifyOTP 校验并消费验证码。校验失败时验证码保留
func (s *AuthService) VerifyOTP(ctx context.Context, phone, otpCode string) (*models.User, error) {
	phone = utils.NormalizePhone(phone)
	otpCode = strings.TrimSpace(otpCode)
	if phone == "" || otpCode == "" {
		return nil, code.New(code.ErrPhoneAndCodeRequired)
	}

	db := s.DB.WithContext(ctx)

	var otp models.OTP
	if err := db.Where("phone = ?", phone).First(&otp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrOTPNotFound)
		}
		return nil, dbError(err)
	}
	if otp.Code != otpCode {
		return nil, code.New(code.ErrOTPInvalid)
	}
	if s.Now().Unix() >= otp.ExpiresAt {
		return nil, code.New(code.ErrOTPExpired)
	}

	// 同一验证码只能被消费一次
	res := db.Where("phone = ? AND code = ?", phone, otpCode).Delete(&models.OTP{})
	if res.Error != nil {
		return nil, dbError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, code.New(code.ErrOTPNotFound)
	}

	var user models.User
	if err := db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrUserNotFound)
		}
		return nil, dbError(err)
	}
	return &user, nil
}

// 3 GetUser 根据ID获取用户
func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.New(code.ErrUserNotFound)
		}
		return nil, dbError(err)
	}
	return &user, nil
}
