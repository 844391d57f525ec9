package repository

import (
	"context"

	"github.com/halvden/oblevel/internal/schema"
	"gorm.io/gorm"
)

// SkillRepository reads and mutates the skill reference rows.
type SkillRepository struct {
	db *gorm.DB
}

// NewSkillRepository creates the repository.
func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{db: db}
}

// ListOrdered returns every skill in sheet order: majors first, then by the
// persistent sort key within each group.
func (r *SkillRepository) ListOrdered(ctx context.Context) ([]schema.Skill, error) {
	var skills []schema.Skill
	err := r.db.WithContext(ctx).Order("major DESC, sort_order ASC").Find(&skills).Error
	if err != nil {
		return nil, storagef(err, "list skills")
	}
	return skills, nil
}

// SetMajors replaces the major flag set in one transaction: every skill in
// ids becomes major, every other skill minor. Cap enforcement is the
// caller's; this is a plain write.
func (r *SkillRepository) SetMajors(ctx context.Context, ids []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE skills SET major = ?", false).Error; err != nil {
			return storagef(err, "clear major flags")
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Model(&schema.Skill{}).Where("id IN ?", ids).Update("major", true).Error; err != nil {
			return storagef(err, "set major flags")
		}
		return nil
	})
}
