package schema

import "time"

// SkillLevel is one skill's value at one character level. PrevValue is the
// value carried in when the level was created, so CurValue-PrevValue is the
// progress made within the level. One row per (skill, level).
type SkillLevel struct {
	ID        uint      `gorm:"primaryKey"`
	SkillID   uint      `gorm:"not null;uniqueIndex:idx_skill_level"`
	Level     int       `gorm:"not null;uniqueIndex:idx_skill_level"`
	CurValue  int       `gorm:"not null"`
	PrevValue int       `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Increase reports the in-level gain.
func (sl SkillLevel) Increase() int {
	return sl.CurValue - sl.PrevValue
}

// TableName overrides the gorm default.
func (SkillLevel) TableName() string {
	return "skill_levels"
}
