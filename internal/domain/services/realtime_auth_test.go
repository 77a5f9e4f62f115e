package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
	"github.com/kingnahee2-droid/CareWell/internal/test/testutil"
)

func newAuthenticator(t *testing.T) (*RealtimeAuthenticator, *models.User) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{JWTSecretKey: "secret", OTPTTL: time.Minute}
	user := testutil.CreateUser(t, db, "Grandma", "0811111111", models.RoleElderly)
	a := NewRealtimeAuthenticator(
		NewSessionService(NewMemorySessionStore(), time.Hour),
		NewJWTService(cfg),
		NewAuthService(db, cfg, NewSMSService(cfg)),
		"carewell_sid",
	)
	return a, user
}

func TestRealtimeAuthenticator_Cookie(t *testing.T) {
	a, user := newAuthenticator(t)
	sid, err := a.Sessions.Create(context.Background(), user)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/ws?userId=%d&role=elderly", user.ID), nil)
	r.AddCookie(&http.Cookie{Name: "carewell_sid", Value: sid})

	id, role, err := a.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.Equal(t, models.RoleElderly, role)
}

func TestRealtimeAuthenticator_Token(t *testing.T) {
	a, user := newAuthenticator(t)
	token, _, err := a.JWT.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/ws?token=%s&userId=%d&role=elderly", token, user.ID), nil)
	id, _, err := a.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestRealtimeAuthenticator_Rejections(t *testing.T) {
	a, user := newAuthenticator(t)
	token, _, err := a.JWT.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)

	cases := map[string]string{
		"no credentials": "/ws",
		"bad token":      "/ws?token=garbage",
		"wrong user":     fmt.Sprintf("/ws?token=%s&userId=%d&role=elderly", token, user.ID+1),
		"wrong role":     fmt.Sprintf("/ws?token=%s&userId=%d&role=family", token, user.ID),
		"missing userId": fmt.Sprintf("/ws?token=%s&role=elderly", token),
		"missing role":   fmt.Sprintf("/ws?token=%s&userId=%d", token, user.ID),
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := a.Authenticate(httptest.NewRequest(http.MethodGet, target, nil))
			assert.ErrorIs(t, err, realtime.ErrHandshakeRejected)
		})
	}

	r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/ws?userId=%d&role=elderly", user.ID), nil)
	r.AddCookie(&http.Cookie{Name: "carewell_sid", Value: "expired"})
	_, _, err = a.Authenticate(r)
	assert.ErrorIs(t, err, realtime.ErrHandshakeRejected)
}
