package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/halvden/oblevel/internal/repository"
	"github.com/halvden/oblevel/internal/schema"
)

// IndexMaps are the reference-data projections the engine navigates by:
// sheet positions, stable ids, and names, each resolvable into the others in
// O(1). Built once per open and rebuilt whenever the major set changes,
// since positions shift wholesale with it.
type IndexMaps struct {
	skills     []schema.Skill    // sheet order: majors first, then sort key
	attributes []schema.Attribute

	posBySkillID map[uint]int
	skillIDByKey map[string]uint // lowercased name
	skillByID    map[uint]schema.Skill

	posByAttrID   map[uint]int
	attrIDByKey   map[string]uint // lowercased name
	attrByID      map[uint]schema.Attribute
	governedPos   map[uint][]int // attribute id -> positions of governed skills
	hotkeyBySkill map[uint]rune  // lowercased accelerator, skills with one
	skillByHotkey map[rune]uint
}

// NewIndexMaps validates the reference set and builds the projections.
// Empty tables, duplicate names, or a skill governed by an unknown attribute
// all mean the store cannot be navigated, reported as a schema violation.
func NewIndexMaps(skills []schema.Skill, attributes []schema.Attribute) (*IndexMaps, error) {
	if len(skills) == 0 {
		return nil, &repository.SchemaError{Reason: "no skills defined"}
	}
	if len(attributes) == 0 {
		return nil, &repository.SchemaError{Reason: "no attributes defined"}
	}

	m := &IndexMaps{
		skills:        skills,
		attributes:    attributes,
		posBySkillID:  make(map[uint]int, len(skills)),
		skillIDByKey:  make(map[string]uint, len(skills)),
		skillByID:     make(map[uint]schema.Skill, len(skills)),
		posByAttrID:   make(map[uint]int, len(attributes)),
		attrIDByKey:   make(map[string]uint, len(attributes)),
		attrByID:      make(map[uint]schema.Attribute, len(attributes)),
		governedPos:   make(map[uint][]int, len(attributes)),
		hotkeyBySkill: make(map[uint]rune),
		skillByHotkey: make(map[rune]uint),
	}

	for pos, a := range attributes {
		key := strings.ToLower(a.Name)
		if _, dup := m.attrIDByKey[key]; dup {
			return nil, &repository.SchemaError{Reason: fmt.Sprintf("duplicate attribute name %q", a.Name)}
		}
		m.posByAttrID[a.ID] = pos
		m.attrIDByKey[key] = a.ID
		m.attrByID[a.ID] = a
	}

	for pos, s := range skills {
		key := strings.ToLower(s.Name)
		if _, dup := m.skillIDByKey[key]; dup {
			return nil, &repository.SchemaError{Reason: fmt.Sprintf("duplicate skill name %q", s.Name)}
		}
		if _, ok := m.attrByID[s.AttributeID]; !ok {
			return nil, &repository.SchemaError{Reason: fmt.Sprintf("skill %q governed by unknown attribute %d", s.Name, s.AttributeID)}
		}
		m.posBySkillID[s.ID] = pos
		m.skillIDByKey[key] = s.ID
		m.skillByID[s.ID] = s
		m.governedPos[s.AttributeID] = append(m.governedPos[s.AttributeID], pos)

		if r, ok := hotkeyRune(s); ok {
			if _, taken := m.skillByHotkey[r]; !taken {
				m.hotkeyBySkill[s.ID] = r
				m.skillByHotkey[r] = s.ID
			}
		}
	}

	return m, nil
}

func hotkeyRune(s schema.Skill) (rune, bool) {
	if s.Hotkey < 0 {
		return 0, false
	}
	runes := []rune(s.Name)
	if s.Hotkey >= len(runes) {
		return 0, false
	}
	return unicode.ToLower(runes[s.Hotkey]), true
}

// SkillCount reports how many skills make a level complete.
func (m *IndexMaps) SkillCount() int { return len(m.skills) }

// AttributeCount reports how many attributes make a level complete.
func (m *IndexMaps) AttributeCount() int { return len(m.attributes) }

// SkillAt returns the skill at a sheet position.
func (m *IndexMaps) SkillAt(pos int) (schema.Skill, bool) {
	if pos < 0 || pos >= len(m.skills) {
		return schema.Skill{}, false
	}
	return m.skills[pos], true
}

// PositionOf returns the sheet position of a skill id.
func (m *IndexMaps) PositionOf(skillID uint) (int, bool) {
	pos, ok := m.posBySkillID[skillID]
	return pos, ok
}

// SkillByID returns the skill record for an id.
func (m *IndexMaps) SkillByID(id uint) (schema.Skill, bool) {
	s, ok := m.skillByID[id]
	return s, ok
}

// SkillIDByName resolves a skill name, case-insensitively.
func (m *IndexMaps) SkillIDByName(name string) (uint, bool) {
	id, ok := m.skillIDByKey[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// SkillIDByHotkey resolves a single accelerator letter.
func (m *IndexMaps) SkillIDByHotkey(r rune) (uint, bool) {
	id, ok := m.skillByHotkey[unicode.ToLower(r)]
	return id, ok
}

// Hotkey returns a skill's accelerator letter, if it has one.
func (m *IndexMaps) Hotkey(skillID uint) (rune, bool) {
	r, ok := m.hotkeyBySkill[skillID]
	return r, ok
}

// AttributeAt returns the attribute at a display position.
func (m *IndexMaps) AttributeAt(pos int) (schema.Attribute, bool) {
	if pos < 0 || pos >= len(m.attributes) {
		return schema.Attribute{}, false
	}
	return m.attributes[pos], true
}

// AttributePositionOf returns the display position of an attribute id.
func (m *IndexMaps) AttributePositionOf(attrID uint) (int, bool) {
	pos, ok := m.posByAttrID[attrID]
	return pos, ok
}

// AttributeByID returns the attribute record for an id.
func (m *IndexMaps) AttributeByID(id uint) (schema.Attribute, bool) {
	a, ok := m.attrByID[id]
	return a, ok
}

// AttributeIDByName resolves an attribute name, case-insensitively.
func (m *IndexMaps) AttributeIDByName(name string) (uint, bool) {
	id, ok := m.attrIDByKey[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

// GovernedPositions returns the sheet positions of the skills an attribute
// governs, in sheet order.
func (m *IndexMaps) GovernedPositions(attrID uint) []int {
	return m.governedPos[attrID]
}

// SkillIDs returns every skill id in sheet order.
func (m *IndexMaps) SkillIDs() []uint {
	ids := make([]uint, len(m.skills))
	for i, s := range m.skills {
		ids[i] = s.ID
	}
	return ids
}

// AttributeIDs returns every attribute id in display order.
func (m *IndexMaps) AttributeIDs() []uint {
	ids := make([]uint, len(m.attributes))
	for i, a := range m.attributes {
		ids[i] = a.ID
	}
	return ids
}

// MajorIDs returns the ids of the current major skills in sheet order.
func (m *IndexMaps) MajorIDs() []uint {
	var ids []uint
	for _, s := range m.skills {
		if s.Major {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// MinorIDs returns the ids of the current minor skills in sheet order.
func (m *IndexMaps) MinorIDs() []uint {
	var ids []uint
	for _, s := range m.skills {
		if !s.Major {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
