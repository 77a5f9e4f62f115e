package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
)

// InterfaceJWTService 定义JWT服务接口，只用于实时通道握手
type InterfaceJWTService interface {
	GenerateToken(userID uint, role models.Role) (string, time.Time, error)
	ExtractClaims(tokenString string) (*JWTClaims, error)
}

// JWTService 提供JWT相关服务
type JWTService struct {
	secretKey string
	issuer    string
	ttl       time.Duration
}

// JWTClaims 定义JWT令牌的声明结构
type JWTClaims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config) InterfaceJWTService {
	ttl := cfg.RealtimeTokenTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &JWTService{
		secretKey: cfg.JWTSecretKey,
		issuer:    "carewell",
		ttl:       ttl,
	}
}

// GenerateToken 生成短期实时通道令牌
func (s *JWTService) GenerateToken(userID uint, role models.Role) (string, time.Time, error) {
	now := time.Now()
	expirationTime := now.Add(s.ttl)

	claims := &JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expirationTime, nil
}

// ExtractClaims 验证令牌并提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Issuer != s.issuer {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
