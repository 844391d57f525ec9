package schema

// Attribute is one of the 7 character attributes. Each skill is governed by
// exactly one attribute; the mapping is part of the seeded reference data.
type Attribute struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:50;uniqueIndex;not null"`
	Description string `gorm:"size:255"`
}

// TableName overrides the gorm default.
func (Attribute) TableName() string {
	return "attributes"
}
