package services

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/realtime"
)

// RealtimeAuthenticator 校验 websocket 握手：会话 cookie 或 token 参数，
// 握手必须携带 userId/role，且与认证结果一致
type RealtimeAuthenticator struct {
	Sessions   InterfaceSessionService
	JWT        InterfaceJWTService
	Auth       InterfaceAuthService
	CookieName string
}

// NewRealtimeAuthenticator 创建握手认证器
func NewRealtimeAuthenticator(sessions InterfaceSessionService, jwtService InterfaceJWTService, auth InterfaceAuthService, cookieName string) *RealtimeAuthenticator {
	return &RealtimeAuthenticator{
		Sessions:   sessions,
		JWT:        jwtService,
		Auth:       auth,
		CookieName: cookieName,
	}
}

// Authenticate implements realtime.Authenticator
func (a *RealtimeAuthenticator) Authenticate(r *http.Request) (uint, models.Role, error) {
	query := r.URL.Query()

	var userID uint
	if token := query.Get("token"); token != "" {
		claims, err := a.JWT.ExtractClaims(token)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %v", realtime.ErrHandshakeRejected, err)
		}
		userID = claims.UserID
	} else {
		cookie, err := r.Cookie(a.CookieName)
		if err != nil {
			return 0, "", fmt.Errorf("%w: no credentials", realtime.ErrHandshakeRejected)
		}
		session, err := a.Sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			return 0, "", fmt.Errorf("%w: %v", realtime.ErrHandshakeRejected, err)
		}
		userID = session.UserID
	}

	user, err := a.Auth.GetUser(r.Context(), userID)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", realtime.ErrHandshakeRejected, err)
	}

	claimedID, claimedRole := query.Get("userId"), query.Get("role")
	if claimedID == "" || claimedRole == "" {
		return 0, "", fmt.Errorf("%w: userId and role are required", realtime.ErrHandshakeRejected)
	}
	if id, err := strconv.ParseUint(claimedID, 10, 64); err != nil || uint(id) != user.ID {
		return 0, "", fmt.Errorf("%w: userId mismatch", realtime.ErrHandshakeRejected)
	}
	if models.Role(claimedRole) != user.Role {
		return 0, "", fmt.Errorf("%w: role mismatch", realtime.ErrHandshakeRejected)
	}

	return user.ID, user.Role, nil
}
