package repository

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite" // pure Go SQLite driver
	"github.com/halvden/oblevel/internal/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm handle for one character file.
type Database struct {
	DB   *gorm.DB
	Path string
}

// Open connects to an existing character database and validates its layout.
// The file must already exist; a missing file, a file that is not SQLite, or
// a schema version this build does not understand all fail with a typed
// error. Nothing is migrated on open.
func Open(path string) (*Database, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &SchemaError{Path: path, Reason: "file does not exist"}
		}
		return nil, storagef(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, &SchemaError{Path: path, Reason: "path is a directory"}
	}

	db, err := connect(path)
	if err != nil {
		return nil, err
	}

	d := &Database{DB: db, Path: path}
	if err := d.validateSchema(); err != nil {
		d.Close()
		return nil, err
	}

	slog.Info("database opened", "path", path)
	return d, nil
}

// Create builds a fresh character database at path, seeded with the full
// skill and attribute reference set and a zeroed level 1. Refuses to touch an
// existing file.
func Create(path string) (*Database, error) {
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, storagef(err, "stat %s", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storagef(err, "create directory %s", dir)
		}
	}

	db, err := connect(path)
	if err != nil {
		return nil, err
	}

	d := &Database{DB: db, Path: path}
	if err := Initialize(db); err != nil {
		d.Close()
		os.Remove(path)
		return nil, err
	}

	slog.Info("database created", "path", path)
	return d, nil
}

func connect(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, storagef(err, "open %s", path)
	}
	if err := configureDB(db); err != nil {
		return nil, err
	}
	return db, nil
}

// configureDB applies the SQLite pragmas used for on-disk files.
func configureDB(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return storagef(err, "exec %s", pragma)
		}
	}

	return nil
}

// Initialize migrates the full table set into db, stamps the schema version,
// and inserts the reference seed plus the zeroed level 1 rows. Shared by
// Create and the in-memory test databases.
func Initialize(db *gorm.DB) error {
	if err := autoMigrate(db); err != nil {
		return storagef(err, "migrate tables")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		meta := schema.SchemaMeta{ID: 1, SchemaVersion: schema.SchemaVersion}
		if err := tx.Create(&meta).Error; err != nil {
			return storagef(err, "write schema_meta")
		}

		attrs := schema.SeedAttributes()
		if err := tx.Create(&attrs).Error; err != nil {
			return storagef(err, "seed attributes")
		}
		skills := schema.SeedSkills()
		if err := tx.Create(&skills).Error; err != nil {
			return storagef(err, "seed skills")
		}

		for _, s := range skills {
			row := schema.SkillLevel{SkillID: s.ID, Level: 1}
			if err := tx.Create(&row).Error; err != nil {
				return storagef(err, "seed level 1 (skill %d)", s.ID)
			}
		}
		for _, a := range attrs {
			row := schema.AttributeLevel{AttributeID: a.ID, Level: 1}
			if err := tx.Create(&row).Error; err != nil {
				return storagef(err, "seed level 1 (attribute %d)", a.ID)
			}
		}
		return nil
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.SchemaMeta{},
		&schema.Attribute{},
		&schema.Skill{},
		&schema.SkillLevel{},
		&schema.AttributeLevel{},
	)
}

// validateSchema checks that the file is SQLite at all, that every expected
// table exists, and that the recorded schema version matches this build.
// Runs on open only; an unexpected layout is reported, never repaired.
func (d *Database) validateSchema() error {
	var n int64
	if err := d.DB.Raw("SELECT count(*) FROM sqlite_master").Scan(&n).Error; err != nil {
		return &SchemaError{Path: d.Path, Reason: fmt.Sprintf("not a SQLite database: %v", err)}
	}

	migrator := d.DB.Migrator()
	for _, table := range []string{"schema_meta", "attributes", "skills", "skill_levels", "attribute_levels"} {
		if !migrator.HasTable(table) {
			return &SchemaError{Path: d.Path, Reason: fmt.Sprintf("missing table %s", table)}
		}
	}

	var meta schema.SchemaMeta
	if err := d.DB.First(&meta, 1).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &SchemaError{Path: d.Path, Reason: "schema_meta row missing"}
		}
		return &SchemaError{Path: d.Path, Reason: fmt.Sprintf("read schema_meta: %v", err)}
	}
	if meta.SchemaVersion != schema.SchemaVersion {
		return &SchemaError{
			Path:   d.Path,
			Reason: fmt.Sprintf("schema version %d, this build supports %d", meta.SchemaVersion, schema.SchemaVersion),
		}
	}

	return nil
}

// Close releases the underlying connection.
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
