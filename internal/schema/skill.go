package schema

// Skill is one of the 21 trackable skills. Reference data: seeded at database
// creation, mutated only when the major-skill set is reassigned.
type Skill struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:50;uniqueIndex;not null"` // display name: Blade, Alchemy, ...
	AttributeID uint   `gorm:"index;not null"`               // governing attribute
	Major       bool   `gorm:"not null;default:false"`       // counts toward level readiness
	SortOrder   int    `gorm:"not null"`                     // display order within the major/minor groups
	Hotkey      int    `gorm:"not null;default:-1"`          // accelerator rune index in Name, -1 when none
	Description string `gorm:"size:255"`
}

// TableName overrides the gorm default.
func (Skill) TableName() string {
	return "skills"
}
