package service

import (
	"errors"
	"testing"

	"github.com/halvden/oblevel/internal/repository"
	"github.com/halvden/oblevel/internal/schema"
)

func refMaps(t *testing.T) *IndexMaps {
	t.Helper()
	m, err := NewIndexMaps(refSkills(), refAttrs())
	if err != nil {
		t.Fatalf("NewIndexMaps error: %v", err)
	}
	return m
}

func refRows() ([]schema.SkillLevel, []schema.AttributeLevel) {
	skills := []schema.SkillLevel{
		{SkillID: 3, Level: 2, CurValue: 25, PrevValue: 20}, // Blade, major, +5
		{SkillID: 1, Level: 2, CurValue: 12, PrevValue: 10}, // Destruction +2
		{SkillID: 2, Level: 2, CurValue: 8, PrevValue: 8},   // Restoration +0
		{SkillID: 4, Level: 2, CurValue: 30, PrevValue: 27}, // Mercantile +3
	}
	attrs := []schema.AttributeLevel{
		{AttributeID: 1, Level: 2, CurValue: 40}, // Strength
		{AttributeID: 2, Level: 2, CurValue: 35}, // Willpower
	}
	return skills, attrs
}

func TestSnapshotAggregates(t *testing.T) {
	m := refMaps(t)
	skillRows, attrRows := refRows()

	s, err := newSnapshot(m, 2, skillRows, attrRows)
	if err != nil {
		t.Fatalf("newSnapshot error: %v", err)
	}

	if s.level != 2 {
		t.Fatalf("level = %d, want 2", s.level)
	}
	// Strength governs Blade (+5) and Mercantile (+3); value comes from the
	// stored attribute row, not from the skill sum.
	if s.attrs[0].value != 40 || s.attrs[0].increase != 8 {
		t.Fatalf("Strength = %d/+%d, want 40/+8", s.attrs[0].value, s.attrs[0].increase)
	}
	if s.attrs[1].value != 35 || s.attrs[1].increase != 2 {
		t.Fatalf("Willpower = %d/+%d, want 35/+2", s.attrs[1].value, s.attrs[1].increase)
	}
	// Blade is the only major.
	if s.readiness != 5 {
		t.Fatalf("readiness = %d, want 5", s.readiness)
	}
	if s.isDirty() {
		t.Fatalf("fresh snapshot dirty")
	}
}

func TestSnapshotRejectsIncompleteLevel(t *testing.T) {
	m := refMaps(t)
	skillRows, attrRows := refRows()

	var schemaErr *repository.SchemaError
	if _, err := newSnapshot(m, 2, skillRows[1:], attrRows); !errors.As(err, &schemaErr) {
		t.Fatalf("missing skill row: error = %v, want SchemaError", err)
	}
	if _, err := newSnapshot(m, 2, skillRows, attrRows[:1]); !errors.As(err, &schemaErr) {
		t.Fatalf("missing attribute row: error = %v, want SchemaError", err)
	}
}

func TestSnapshotIncrement(t *testing.T) {
	m := refMaps(t)
	skillRows, attrRows := refRows()
	s, err := newSnapshot(m, 2, skillRows, attrRows)
	if err != nil {
		t.Fatalf("newSnapshot error: %v", err)
	}

	// Position 0 is Blade: major, Strength.
	value, inc, err := s.increment(0)
	if err != nil {
		t.Fatalf("increment error: %v", err)
	}
	if value != 26 || inc != 6 {
		t.Fatalf("increment = %d/+%d, want 26/+6", value, inc)
	}
	if !s.isDirty() || !s.dirty[3] {
		t.Fatalf("dirty set = %v, want skill 3 dirty", s.dirty)
	}
	if s.attrs[0].value != 41 || s.attrs[0].increase != 9 {
		t.Fatalf("Strength = %d/+%d, want 41/+9", s.attrs[0].value, s.attrs[0].increase)
	}
	if s.readiness != 6 {
		t.Fatalf("readiness = %d, want 6", s.readiness)
	}

	// Position 1 is Destruction: minor, Willpower; readiness must not move.
	if _, _, err := s.increment(1); err != nil {
		t.Fatalf("increment error: %v", err)
	}
	if s.readiness != 6 {
		t.Fatalf("readiness moved on minor increment: %d", s.readiness)
	}

	if _, _, err := s.increment(7); err == nil {
		t.Fatalf("out-of-range increment accepted")
	}

	wantSkills := map[uint]int{3: 26, 1: 13}
	gotSkills := s.dirtySkillValues()
	if len(gotSkills) != len(wantSkills) {
		t.Fatalf("dirty skills = %v, want %v", gotSkills, wantSkills)
	}
	for id, v := range wantSkills {
		if gotSkills[id] != v {
			t.Fatalf("dirty skill %d = %d, want %d", id, gotSkills[id], v)
		}
	}
	wantAttrs := map[uint]int{1: 41, 2: 36}
	gotAttrs := s.dirtyAttrValues()
	if len(gotAttrs) != len(wantAttrs) {
		t.Fatalf("dirty attributes = %v, want %v", gotAttrs, wantAttrs)
	}
	for id, v := range wantAttrs {
		if gotAttrs[id] != v {
			t.Fatalf("dirty attribute %d = %d, want %d", id, gotAttrs[id], v)
		}
	}

	s.clearDirty()
	if s.isDirty() || len(s.dirtySkillValues()) != 0 || len(s.dirtyAttrValues()) != 0 {
		t.Fatalf("clearDirty left bookkeeping behind")
	}
	// Values stay as the new baseline.
	if s.cells[0].value != 26 || s.attrs[0].value != 41 {
		t.Fatalf("clearDirty reset values: %d/%d", s.cells[0].value, s.attrs[0].value)
	}
}
