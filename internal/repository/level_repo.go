package repository

import (
	"context"
	"database/sql"

	"github.com/halvden/oblevel/internal/schema"
	"gorm.io/gorm"
)

// LevelRepository is the gateway for per-level skill and attribute rows.
type LevelRepository struct {
	db *gorm.DB
}

// NewLevelRepository creates the repository.
func NewLevelRepository(db *gorm.DB) *LevelRepository {
	return &LevelRepository{db: db}
}

// MaxLevel returns the highest level holding any skill row. For a store
// without level rows it returns (1, false, nil): the caller starts at the
// first level.
func (r *LevelRepository) MaxLevel(ctx context.Context) (int, bool, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).Raw("SELECT max(level) FROM skill_levels").Scan(&max).Error
	if err != nil {
		return 0, false, storagef(err, "read max level")
	}
	if !max.Valid {
		return 1, false, nil
	}
	return int(max.Int64), true, nil
}

// SkillLevels returns the skill rows at one level. Ordering and projection
// to sheet positions are the caller's concern.
func (r *LevelRepository) SkillLevels(ctx context.Context, level int) ([]schema.SkillLevel, error) {
	var rows []schema.SkillLevel
	err := r.db.WithContext(ctx).Where("level = ?", level).Find(&rows).Error
	if err != nil {
		return nil, storagef(err, "read skill rows at level %d", level)
	}
	return rows, nil
}

// AttributeLevels returns the attribute rows at one level.
func (r *LevelRepository) AttributeLevels(ctx context.Context, level int) ([]schema.AttributeLevel, error) {
	var rows []schema.AttributeLevel
	err := r.db.WithContext(ctx).Where("level = ?", level).Find(&rows).Error
	if err != nil {
		return nil, storagef(err, "read attribute rows at level %d", level)
	}
	return rows, nil
}

// EnsureLevelRows inserts zero-valued rows for any of the given skills and
// attributes missing at level, in one transaction. Pre-existing rows are
// never touched, so a partially populated level is completed rather than
// reset. Returns the number of rows created; 0 means the level was already
// complete.
func (r *LevelRepository) EnsureLevelRows(ctx context.Context, level int, skillIDs, attributeIDs []uint) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var haveSkills []uint
		if err := tx.Model(&schema.SkillLevel{}).Where("level = ?", level).Pluck("skill_id", &haveSkills).Error; err != nil {
			return storagef(err, "list skill rows at level %d", level)
		}
		have := make(map[uint]bool, len(haveSkills))
		for _, id := range haveSkills {
			have[id] = true
		}
		for _, id := range skillIDs {
			if have[id] {
				continue
			}
			row := schema.SkillLevel{SkillID: id, Level: level}
			if err := tx.Create(&row).Error; err != nil {
				return storagef(err, "insert skill %d at level %d", id, level)
			}
			created++
		}

		var haveAttrs []uint
		if err := tx.Model(&schema.AttributeLevel{}).Where("level = ?", level).Pluck("attribute_id", &haveAttrs).Error; err != nil {
			return storagef(err, "list attribute rows at level %d", level)
		}
		have = make(map[uint]bool, len(haveAttrs))
		for _, id := range haveAttrs {
			have[id] = true
		}
		for _, id := range attributeIDs {
			if have[id] {
				continue
			}
			row := schema.AttributeLevel{AttributeID: id, Level: level}
			if err := tx.Create(&row).Error; err != nil {
				return storagef(err, "insert attribute %d at level %d", id, level)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

// SaveValues updates current values for the given skills and attributes at
// level in one transaction. A missing row is an error, not an upsert: rows
// are only ever created through EnsureLevelRows or CarryForward.
func (r *LevelRepository) SaveValues(ctx context.Context, level int, skillValues, attrValues map[uint]int) error {
	if len(skillValues) == 0 && len(attrValues) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, v := range skillValues {
			res := tx.Model(&schema.SkillLevel{}).
				Where("skill_id = ? AND level = ?", id, level).
				Update("cur_value", v)
			if res.Error != nil {
				return storagef(res.Error, "update skill %d at level %d", id, level)
			}
			if res.RowsAffected == 0 {
				return storagef(gorm.ErrRecordNotFound, "update skill %d at level %d", id, level)
			}
		}
		for id, v := range attrValues {
			res := tx.Model(&schema.AttributeLevel{}).
				Where("attribute_id = ? AND level = ?", id, level).
				Update("cur_value", v)
			if res.Error != nil {
				return storagef(res.Error, "update attribute %d at level %d", id, level)
			}
			if res.RowsAffected == 0 {
				return storagef(gorm.ErrRecordNotFound, "update attribute %d at level %d", id, level)
			}
		}
		return nil
	})
}

// CarryForward creates level to from the persisted rows at level from, in
// one transaction. Each skill starts with current and carried value equal to
// the source's current value; each attribute carries its value unless an
// override is supplied for it.
func (r *LevelRepository) CarryForward(ctx context.Context, from, to int, attrOverrides map[uint]int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var skills []schema.SkillLevel
		if err := tx.Where("level = ?", from).Find(&skills).Error; err != nil {
			return storagef(err, "read skill rows at level %d", from)
		}
		for _, src := range skills {
			row := schema.SkillLevel{
				SkillID:   src.SkillID,
				Level:     to,
				CurValue:  src.CurValue,
				PrevValue: src.CurValue,
			}
			if err := tx.Create(&row).Error; err != nil {
				return storagef(err, "insert skill %d at level %d", src.SkillID, to)
			}
		}

		var attrs []schema.AttributeLevel
		if err := tx.Where("level = ?", from).Find(&attrs).Error; err != nil {
			return storagef(err, "read attribute rows at level %d", from)
		}
		for _, src := range attrs {
			v := src.CurValue
			if o, ok := attrOverrides[src.AttributeID]; ok {
				v = o
			}
			row := schema.AttributeLevel{AttributeID: src.AttributeID, Level: to, CurValue: v}
			if err := tx.Create(&row).Error; err != nil {
				return storagef(err, "insert attribute %d at level %d", src.AttributeID, to)
			}
		}
		return nil
	})
}

// LevelSummary is a per-level row count pair used for listings.
type LevelSummary struct {
	Level         int
	SkillRows     int
	AttributeRows int
}

// Levels returns every level present in either table with its row counts,
// ascending.
func (r *LevelRepository) Levels(ctx context.Context) ([]LevelSummary, error) {
	var out []LevelSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT l.level AS level,
		       (SELECT count(*) FROM skill_levels s WHERE s.level = l.level) AS skill_rows,
		       (SELECT count(*) FROM attribute_levels a WHERE a.level = l.level) AS attribute_rows
		FROM (SELECT level FROM skill_levels UNION SELECT level FROM attribute_levels) l
		ORDER BY l.level`).Scan(&out).Error
	if err != nil {
		return nil, storagef(err, "list levels")
	}
	return out, nil
}
