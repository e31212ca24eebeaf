package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rewear/internal/domain"
)

func TestMySQLConfig(t *testing.T) {
	cfg, err := mysqlConfig("mysql://app:secret@db:3306/rewear?loc=UTC", "root", "pw")
	require.NoError(t, err)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "rewear", cfg.DBName)
	assert.Equal(t, "root", cfg.User)
	assert.Equal(t, "pw", cfg.Passwd)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "UTC", cfg.Loc.String())

	native, err := mysqlConfig("u:p@tcp(localhost:3306)/x", "", "")
	require.NoError(t, err)
	assert.Equal(t, "u", native.User)
	assert.Equal(t, "localhost:3306", native.Addr)
	assert.True(t, native.ParseTime)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_busy_timeout=5000&_foreign_keys=on", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=rwc&_busy_timeout=5000&_foreign_keys=on", sqliteDSN("a.db?mode=rwc"))
	assert.Equal(t, "a.db?_busy_timeout=1", sqliteDSN("a.db?_busy_timeout=1"))
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle"})
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewTestDBMigrates(t *testing.T) {
	db := NewTestDB(t)
	for _, m := range domain.Models() {
		require.True(t, db.Migrator().HasTable(m))
	}
}
