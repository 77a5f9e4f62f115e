package services

import (
	"time"

	"github.com/kingnahee2-droid/CareWell/internal/error/code"
)

// EventRelay 定向推送事件，调用方不关心是否送达
type EventRelay interface {
	Deliver(userID uint, event string, payload interface{})
}

// PresenceChecker 查询用户是否在线
type PresenceChecker interface {
	IsOnline(userID uint) bool
}

// Clock 当前时间，测试中可替换
type Clock func() time.Time

func dbError(err error) error {
	return code.Wrap(code.ErrDatabase, err)
}

func today(now time.Time) string {
	return now.Format("2006-01-02")
}
