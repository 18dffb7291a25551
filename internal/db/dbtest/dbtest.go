// Package dbtest provides in-memory SQLite databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"robot-registry/internal/db"
	"robot-registry/internal/store"
)

var (
	nameReplacer = strings.NewReplacer("/", "_", " ", "_", "#", "_", "?", "_", "&", "_")
	seq          atomic.Int64
)

// Open returns a fresh migrated in-memory SQLite database, closed on cleanup.
// Every call yields a distinct database, even within the same test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", nameReplacer.Replace(t.Name()), seq.Add(1))
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to the in-memory database: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("Failed to migrate the in-memory database: %v", err)
	}
	return gormDB
}

// OpenStore wraps Open in a record store.
func OpenStore(t testing.TB) store.Store {
	t.Helper()
	return store.NewGormStore(Open(t))
}
