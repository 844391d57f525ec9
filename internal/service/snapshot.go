package service

import (
	"fmt"

	"github.com/halvden/oblevel/internal/repository"
	"github.com/halvden/oblevel/internal/schema"
)

// skillCell is one positional row of the loaded sheet.
type skillCell struct {
	skill   schema.Skill
	value   int // current value, including unsaved increments
	carried int // value the level started with
	dirty   bool
}

func (c skillCell) increase() int { return c.value - c.carried }

// attrCell is one attribute aggregate. The value is seeded from the
// attribute's own stored row and moved in lockstep with increments; the
// increase is purely derived from the governed skills.
type attrCell struct {
	attr     schema.Attribute
	value    int
	increase int
	dirty    bool // value moved since load, needs write-through on save
}

// snapshot is the in-memory image of one level: positional skill cells,
// attribute aggregates, and dirty bookkeeping keyed by stable skill id so
// that a major-set reshuffle can never misattribute pending edits.
type snapshot struct {
	level     int
	maps      *IndexMaps
	cells     []skillCell // by sheet position
	attrs     []attrCell  // by attribute display position
	dirty     map[uint]bool
	readiness int // cached sum of major increases
}

// newSnapshot projects one level's rows onto the sheet. Every skill and
// attribute must have a row; the engine completes a level before loading it,
// so a gap here means the store changed underneath us.
func newSnapshot(maps *IndexMaps, level int, skillRows []schema.SkillLevel, attrRows []schema.AttributeLevel) (*snapshot, error) {
	skillByID := make(map[uint]schema.SkillLevel, len(skillRows))
	for _, r := range skillRows {
		skillByID[r.SkillID] = r
	}
	attrByID := make(map[uint]schema.AttributeLevel, len(attrRows))
	for _, r := range attrRows {
		attrByID[r.AttributeID] = r
	}

	s := &snapshot{
		level: level,
		maps:  maps,
		cells: make([]skillCell, maps.SkillCount()),
		attrs: make([]attrCell, maps.AttributeCount()),
		dirty: make(map[uint]bool),
	}

	for pos := range s.cells {
		sk, _ := maps.SkillAt(pos)
		row, ok := skillByID[sk.ID]
		if !ok {
			return nil, &repository.SchemaError{Reason: fmt.Sprintf("skill %q has no row at level %d", sk.Name, level)}
		}
		s.cells[pos] = skillCell{skill: sk, value: row.CurValue, carried: row.PrevValue}
	}

	for pos := range s.attrs {
		a, _ := maps.AttributeAt(pos)
		row, ok := attrByID[a.ID]
		if !ok {
			return nil, &repository.SchemaError{Reason: fmt.Sprintf("attribute %q has no row at level %d", a.Name, level)}
		}
		inc := 0
		for _, sp := range maps.GovernedPositions(a.ID) {
			inc += s.cells[sp].increase()
		}
		s.attrs[pos] = attrCell{attr: a, value: row.CurValue, increase: inc}
	}

	for _, pos := range s.majorPositions() {
		s.readiness += s.cells[pos].increase()
	}

	return s, nil
}

func (s *snapshot) majorPositions() []int {
	var out []int
	for pos, c := range s.cells {
		if c.skill.Major {
			out = append(out, pos)
		}
	}
	return out
}

// increment bumps the skill at pos by one and pulls its governing attribute
// aggregate along. Returns the new value and in-level increase.
func (s *snapshot) increment(pos int) (int, int, error) {
	if pos < 0 || pos >= len(s.cells) {
		return 0, 0, fmt.Errorf("position %d out of range [0,%d)", pos, len(s.cells))
	}
	c := &s.cells[pos]
	c.value++
	c.dirty = true
	s.dirty[c.skill.ID] = true

	if apos, ok := s.maps.AttributePositionOf(c.skill.AttributeID); ok {
		a := &s.attrs[apos]
		a.value++
		a.increase++
		a.dirty = true
	}
	if c.skill.Major {
		s.readiness++
	}
	return c.value, c.increase(), nil
}

// isDirty reports whether any unsaved mutation exists.
func (s *snapshot) isDirty() bool { return len(s.dirty) > 0 }

// dirtySkillValues returns skill id -> current value for every dirty cell.
func (s *snapshot) dirtySkillValues() map[uint]int {
	out := make(map[uint]int, len(s.dirty))
	for _, c := range s.cells {
		if c.dirty {
			out[c.skill.ID] = c.value
		}
	}
	return out
}

// dirtyAttrValues returns attribute id -> current value for every aggregate
// that moved since load. Written through alongside the skill rows so a
// reload reproduces the in-memory aggregates.
func (s *snapshot) dirtyAttrValues() map[uint]int {
	out := make(map[uint]int)
	for _, a := range s.attrs {
		if a.dirty {
			out[a.attr.ID] = a.value
		}
	}
	return out
}

// clearDirty resets the bookkeeping after a successful save. The saved
// values stay in place as the new baseline; increases are unaffected since
// the carried values never move within a level.
func (s *snapshot) clearDirty() {
	for i := range s.cells {
		s.cells[i].dirty = false
	}
	for i := range s.attrs {
		s.attrs[i].dirty = false
	}
	s.dirty = make(map[uint]bool)
}
