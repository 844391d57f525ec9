package service

import (
	"context"

	"github.com/halvden/oblevel/internal/repository"
	"github.com/halvden/oblevel/internal/schema"
)

// Minimal repository interfaces the engine depends on (ISP). The concrete
// types in internal/repository satisfy them; tests substitute fakes.

type SkillRepository interface {
	ListOrdered(ctx context.Context) ([]schema.Skill, error)
	SetMajors(ctx context.Context, ids []uint) error
}

type AttributeRepository interface {
	List(ctx context.Context) ([]schema.Attribute, error)
}

type LevelRepository interface {
	MaxLevel(ctx context.Context) (int, bool, error)
	SkillLevels(ctx context.Context, level int) ([]schema.SkillLevel, error)
	AttributeLevels(ctx context.Context, level int) ([]schema.AttributeLevel, error)
	EnsureLevelRows(ctx context.Context, level int, skillIDs, attributeIDs []uint) (int, error)
	SaveValues(ctx context.Context, level int, skillValues, attrValues map[uint]int) error
	CarryForward(ctx context.Context, from, to int, attrOverrides map[uint]int) error
	Levels(ctx context.Context) ([]repository.LevelSummary, error)
}
