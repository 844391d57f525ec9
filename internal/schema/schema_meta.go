package schema

import "time"

// SchemaMeta records the database schema version so that opening a file
// created by an incompatible build fails loudly instead of AutoMigrate
// silently reshaping it. The table holds a single row (ID=1).
type SchemaMeta struct {
	ID            int       `gorm:"primaryKey"`
	SchemaVersion int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (SchemaMeta) TableName() string {
	return "schema_meta"
}
