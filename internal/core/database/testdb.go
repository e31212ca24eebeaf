package database

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
)

// NewTestDB 每个测试一个独立的 SQLite 文件库，已建好表
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := NewGorm(Opts{
		Driver:             "sqlite",
		DSN:                filepath.Join(t.TempDir(), "test.db"),
		MaxIdleConns:       1,
		ConnMaxLifetimeMin: 5,
		LogLevel:           "silent",
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
