package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/halvden/oblevel/internal/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an in-memory SQLite database migrated and seeded exactly
// like a freshly created character file: full reference data plus a zeroed
// level 1.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := repository.Initialize(db); err != nil {
		t.Fatalf("initialize test db: %v", err)
	}

	return db
}

// OpenBareTestDB opens an in-memory SQLite database with no tables at all,
// for exercising validation paths.
func OpenBareTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}
