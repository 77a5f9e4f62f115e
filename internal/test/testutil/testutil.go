// Package testutil 测试公共工具：内存数据库、sqlmock、记录推送的 relay
package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/database"
	Logger "github.com/kingnahee2-droid/CareWell/pkg/logger"
)

// NewDB 创建已迁移的内存 SQLite 数据库
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	Logger.Replace(zap.NewNop())

	pool, err := database.Open(sqlite.Open(":memory:"), "sqlite")
	require.NoError(t, err)
	require.NoError(t, pool.Migrate("auto"))
	t.Cleanup(func() { _ = pool.Close() })
	return pool.GetDB()
}

// CreateUser 插入测试用户
func CreateUser(t *testing.T, db *gorm.DB, name, phone string, role models.Role) *models.User {
	t.Helper()
	user := &models.User{Name: name, Phone: phone, Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

// Link 建立双向联系人
func Link(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&[]models.Contact{{UserID: a, ContactID: b}, {UserID: b, ContactID: a}}).Error)
}

// NewMockDB 基于 sqlmock 的 MySQL gorm 实例，用于模拟存储故障
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	Logger.Replace(zap.NewNop())

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}
