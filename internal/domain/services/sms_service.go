package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
)

// InterfaceSMSService 验证码短信发送
type InterfaceSMSService interface {
	SendOTP(ctx context.Context, phone, otpCode string) error
}

// SMSRequest 短信网关请求体
type SMSRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// SMSService 通过 HTTP 短信网关发送验证码；未配置网关时只记录日志
type SMSService struct {
	httpClient *resty.Client
	Config     *config.Config
}

// NewSMSService 创建短信服务
func NewSMSService(cfg *config.Config) InterfaceSMSService {
	s := &SMSService{Config: cfg}
	if cfg.SMSGatewayURL != "" {
		client := resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json")
		if cfg.SMSAPIKey != "" {
			client.SetAuthToken(cfg.SMSAPIKey)
		}
		s.httpClient = client
	}
	return s
}

// SendOTP 发送验证码，不重试
func (s *SMSService) SendOTP(ctx context.Context, phone, otpCode string) error {
	if s.httpClient == nil {
		if !s.Config.IsProduction() {
			Logger.L().Info("otp issued", zap.String("phone", phone), zap.String("code", otpCode))
		}
		return nil
	}

	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(SMSRequest{
			To:      phone,
			From:    s.Config.SMSSender,
			Message: fmt.Sprintf("Your CareWell verification code is %s", otpCode),
		}).
		Post(s.Config.SMSGatewayURL)
	if err != nil {
		return fmt.Errorf("sms gateway request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode())
	}
	return nil
}
