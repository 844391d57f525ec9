package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/halvden/oblevel/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openSeeded gives an in-memory store initialized like a fresh character
// file. Kept local: testutil depends on this package.
func openSeeded(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := Initialize(db); err != nil {
		t.Fatalf("initialize test db: %v", err)
	}
	return db
}

func TestCreateSeedsFreshDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "char.db")

	d, err := Create(path)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	defer d.Close()

	var skills, attrs, skillRows, attrRows int64
	d.DB.Model(&schema.Skill{}).Count(&skills)
	d.DB.Model(&schema.Attribute{}).Count(&attrs)
	d.DB.Model(&schema.SkillLevel{}).Where("level = 1").Count(&skillRows)
	d.DB.Model(&schema.AttributeLevel{}).Where("level = 1").Count(&attrRows)

	if skills != 21 || attrs != 7 {
		t.Fatalf("reference rows = %d skills / %d attributes, want 21/7", skills, attrs)
	}
	if skillRows != 21 || attrRows != 7 {
		t.Fatalf("level 1 rows = %d skills / %d attributes, want 21/7", skillRows, attrRows)
	}

	var zeroed int64
	d.DB.Model(&schema.SkillLevel{}).Where("level = 1 AND (cur_value != 0 OR prev_value != 0)").Count(&zeroed)
	if zeroed != 0 {
		t.Fatalf("%d level 1 rows not zeroed", zeroed)
	}
}

func TestCreateRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "char.db")

	d, err := Create(path)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	d.Close()

	if _, err := Create(path); !errors.Is(err, ErrExists) {
		t.Fatalf("second Create error = %v, want ErrExists", err)
	}
}

func TestOpenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "char.db")

	d, err := Create(path)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	d.Close()

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer d2.Close()

	var meta schema.SchemaMeta
	if err := d2.DB.First(&meta, 1).Error; err != nil {
		t.Fatalf("read schema_meta: %v", err)
	}
	if meta.SchemaVersion != schema.SchemaVersion {
		t.Fatalf("schema version = %d, want %d", meta.SchemaVersion, schema.SchemaVersion)
	}
}

func TestOpenMissingFile(t *testing.T) {
	var schemaErr *SchemaError
	_, err := Open(filepath.Join(t.TempDir(), "nope.db"))
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
}

func TestOpenRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("not a database at all\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var schemaErr *SchemaError
	_, err := Open(path)
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
}

func TestOpenRejectsVersionMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "char.db")

	d, err := Create(path)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := d.DB.Exec("UPDATE schema_meta SET schema_version = 99").Error; err != nil {
		t.Fatalf("bump version: %v", err)
	}
	d.Close()

	var schemaErr *SchemaError
	_, err = Open(path)
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
}

func TestRunQuerySelectsOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "char.db")
	d, err := Create(path)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	defer d.Close()
	ctx := context.Background()

	res, err := d.RunQuery(ctx, "SELECT name FROM skills ORDER BY id;")
	if err != nil {
		t.Fatalf("RunQuery error: %v", err)
	}
	if len(res.Columns) != 1 || res.Columns[0] != "name" {
		t.Fatalf("columns = %v, want [name]", res.Columns)
	}
	if len(res.Rows) != 21 || res.Rows[0][0] != "Blade" {
		t.Fatalf("rows = %d first %v, want 21 rows starting with Blade", len(res.Rows), res.Rows[0])
	}

	if _, err := d.RunQuery(ctx, "DELETE FROM skills"); err == nil {
		t.Fatalf("DELETE accepted, want rejection")
	}
	if _, err := d.RunQuery(ctx, "SELECT 1; SELECT 2"); err == nil {
		t.Fatalf("multi-statement accepted, want rejection")
	}
	if _, err := d.RunQuery(ctx, "   "); err == nil {
		t.Fatalf("empty query accepted, want rejection")
	}
}
