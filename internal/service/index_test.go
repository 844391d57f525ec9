package service

import (
	"errors"
	"testing"

	"github.com/halvden/oblevel/internal/repository"
	"github.com/halvden/oblevel/internal/schema"
)

func refSkills() []schema.Skill {
	// Sheet order: majors first.
	return []schema.Skill{
		{ID: 3, Name: "Blade", AttributeID: 1, Major: true, SortOrder: 10, Hotkey: 0},
		{ID: 1, Name: "Destruction", AttributeID: 2, Major: false, SortOrder: 20, Hotkey: 0},
		{ID: 2, Name: "Restoration", AttributeID: 2, Major: false, SortOrder: 30, Hotkey: 0},
		{ID: 4, Name: "Mercantile", AttributeID: 1, Major: false, SortOrder: 40, Hotkey: -1},
	}
}

func refAttrs() []schema.Attribute {
	return []schema.Attribute{
		{ID: 1, Name: "Strength"},
		{ID: 2, Name: "Willpower"},
	}
}

func TestNewIndexMapsValidation(t *testing.T) {
	var schemaErr *repository.SchemaError

	if _, err := NewIndexMaps(nil, refAttrs()); !errors.As(err, &schemaErr) {
		t.Fatalf("empty skills: error = %v, want SchemaError", err)
	}
	if _, err := NewIndexMaps(refSkills(), nil); !errors.As(err, &schemaErr) {
		t.Fatalf("empty attributes: error = %v, want SchemaError", err)
	}

	dangling := refSkills()
	dangling[1].AttributeID = 99
	if _, err := NewIndexMaps(dangling, refAttrs()); !errors.As(err, &schemaErr) {
		t.Fatalf("dangling attribute ref: error = %v, want SchemaError", err)
	}

	dup := refSkills()
	dup[2].Name = "Blade"
	if _, err := NewIndexMaps(dup, refAttrs()); !errors.As(err, &schemaErr) {
		t.Fatalf("duplicate skill name: error = %v, want SchemaError", err)
	}
}

func TestIndexMapsBidirectional(t *testing.T) {
	m, err := NewIndexMaps(refSkills(), refAttrs())
	if err != nil {
		t.Fatalf("NewIndexMaps error: %v", err)
	}

	if m.SkillCount() != 4 || m.AttributeCount() != 2 {
		t.Fatalf("counts = %d/%d, want 4/2", m.SkillCount(), m.AttributeCount())
	}

	for pos := 0; pos < m.SkillCount(); pos++ {
		s, ok := m.SkillAt(pos)
		if !ok {
			t.Fatalf("SkillAt(%d) missing", pos)
		}
		back, ok := m.PositionOf(s.ID)
		if !ok || back != pos {
			t.Fatalf("PositionOf(%d) = %d/%v, want %d", s.ID, back, ok, pos)
		}
	}

	if id, ok := m.SkillIDByName("  blade "); !ok || id != 3 {
		t.Fatalf("SkillIDByName(blade) = %d/%v, want 3", id, ok)
	}
	if _, ok := m.SkillIDByName("Sneak"); ok {
		t.Fatalf("unknown name resolved")
	}
	if _, ok := m.SkillAt(4); ok {
		t.Fatalf("out-of-range position resolved")
	}

	if id, ok := m.AttributeIDByName("WILLPOWER"); !ok || id != 2 {
		t.Fatalf("AttributeIDByName = %d/%v, want 2", id, ok)
	}

	gov := m.GovernedPositions(2)
	if len(gov) != 2 || gov[0] != 1 || gov[1] != 2 {
		t.Fatalf("GovernedPositions(2) = %v, want [1 2]", gov)
	}

	majors := m.MajorIDs()
	if len(majors) != 1 || majors[0] != 3 {
		t.Fatalf("MajorIDs = %v, want [3]", majors)
	}
}

func TestIndexMapsHotkeys(t *testing.T) {
	m, err := NewIndexMaps(refSkills(), refAttrs())
	if err != nil {
		t.Fatalf("NewIndexMaps error: %v", err)
	}

	// Blade claims 'b'; Destruction and Restoration claim 'd' and 'r'.
	if id, ok := m.SkillIDByHotkey('B'); !ok || id != 3 {
		t.Fatalf("hotkey B = %d/%v, want 3", id, ok)
	}
	if _, ok := m.Hotkey(4); ok {
		t.Fatalf("Mercantile has no hotkey, got one")
	}

	if r, ok := m.Hotkey(1); !ok || r != 'd' {
		t.Fatalf("Hotkey(1) = %q/%v, want d", r, ok)
	}
}

func TestIndexMapsFromSeed(t *testing.T) {
	m, err := NewIndexMaps(schema.SeedSkills(), schema.SeedAttributes())
	if err != nil {
		t.Fatalf("NewIndexMaps error: %v", err)
	}
	if m.SkillCount() != 21 || m.AttributeCount() != 7 {
		t.Fatalf("counts = %d/%d, want 21/7", m.SkillCount(), m.AttributeCount())
	}
	if len(m.MajorIDs()) != 7 {
		t.Fatalf("majors = %d, want 7", len(m.MajorIDs()))
	}

	covered := make(map[int]bool)
	for _, a := range schema.SeedAttributes() {
		for _, pos := range m.GovernedPositions(a.ID) {
			if covered[pos] {
				t.Fatalf("position %d governed twice", pos)
			}
			covered[pos] = true
		}
	}
	if len(covered) != 21 {
		t.Fatalf("governed positions cover %d skills, want 21", len(covered))
	}
}
