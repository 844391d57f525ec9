package schema

import "time"

// AttributeLevel is one attribute's value at one character level. Unlike
// skills there is no carried-in column: the per-level gain is derived from the
// governed skills' increases. One row per (attribute, level).
type AttributeLevel struct {
	ID          uint      `gorm:"primaryKey"`
	AttributeID uint      `gorm:"not null;uniqueIndex:idx_attribute_level"`
	Level       int       `gorm:"not null;uniqueIndex:idx_attribute_level"`
	CurValue    int       `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides the gorm default.
func (AttributeLevel) TableName() string {
	return "attribute_levels"
}
