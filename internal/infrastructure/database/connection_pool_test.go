package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"

	"github.com/kingnahee2-droid/CareWell/internal/domain/models"
	"github.com/kingnahee2-droid/CareWell/internal/infrastructure/config"
)

func TestDialector_UnsupportedDriver(t *testing.T) {
	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpen_SQLiteMigrateAndStats(t *testing.T) {
	pool, err := Open(sqlite.Open(":memory:"), "sqlite")
	require.NoError(t, err)
	defer pool.Close()

	assert.Equal(t, 1, pool.MaxOpenConns)
	require.NoError(t, pool.Migrate("auto"))

	for _, m := range models.AllModels() {
		assert.True(t, pool.GetDB().Migrator().HasTable(m))
	}

	stats, err := pool.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats["max_open_connections"])
	assert.NoError(t, pool.HealthCheck(context.Background()))
}

func TestMigrate_DropRecreatesTables(t *testing.T) {
	pool, err := Open(sqlite.Open(":memory:"), "sqlite")
	require.NoError(t, err)
	defer pool.Close()

	require.NoError(t, pool.Migrate("auto"))
	require.NoError(t, pool.GetDB().Create(&models.User{Name: "A", Phone: "0811111111", Role: models.RoleElderly}).Error)

	require.NoError(t, pool.Migrate("drop"))

	var count int64
	require.NoError(t, pool.GetDB().Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestOpen_MySQLDialectorOverSQLMock(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	pool, err := Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), "mysql")
	require.NoError(t, err)
	assert.Equal(t, 100, pool.MaxOpenConns)
	require.NoError(t, mock.ExpectationsWereMet())
}
