package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
)

func TestJWTService_RoundTrip(t *testing.T) {
	s := NewJWTService(&config.Config{JWTSecretKey: "secret", RealtimeTokenTTL: 10 * time.Minute})

	token, expiresAt, err := s.GenerateToken(42, models.RoleElderly)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 5*time.Second)

	claims, err := s.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleElderly, claims.Role)
}

func TestJWTService_RejectsForeignOrExpiredTokens(t *testing.T) {
	s := NewJWTService(&config.Config{JWTSecretKey: "secret"})
	other := NewJWTService(&config.Config{JWTSecretKey: "other"})

	token, _, err := other.GenerateToken(1, models.RoleFamily)
	require.NoError(t, err)
	_, err = s.ExtractClaims(token)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &JWTClaims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "carewell",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.ExtractClaims(signed)
	assert.Error(t, err)

	_, err = s.ExtractClaims("not-a-token")
	assert.Error(t, err)
}
