package service

import "context"

// SheetRow is one positional skill line of the rendered sheet.
type SheetRow struct {
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Attribute   string `json:"attribute"`
	Major       bool   `json:"major"`
	Value       int    `json:"value"`
	Increase    int    `json:"increase"`
	Dirty       bool   `json:"dirty"`
	Hotkey      string `json:"hotkey,omitempty"`
	Description string `json:"description,omitempty"`
}

// AttributeRow is one rendered attribute aggregate.
type AttributeRow struct {
	Name     string `json:"name"`
	Value    int    `json:"value"`
	Increase int    `json:"increase"`
}

// SheetView is the full rendered state of the loaded level.
type SheetView struct {
	Path            string         `json:"path"`
	Level           int            `json:"level"`
	Rows            []SheetRow     `json:"rows"`
	Attributes      []AttributeRow `json:"attributes"`
	Readiness       int            `json:"readiness"`
	ReadinessTarget int            `json:"readiness_target"`
	CanLevelUp      bool           `json:"can_level_up"`
	Dirty           bool           `json:"dirty"`
}

// Sheet renders the loaded level for presentation. Unsaved increments are
// visible here before any persist.
func (e *Engine) Sheet() (*SheetView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return nil, ErrNoDatabase
	}

	v := &SheetView{
		Path:            e.path,
		Level:           e.snap.level,
		Rows:            make([]SheetRow, 0, len(e.snap.cells)),
		Attributes:      make([]AttributeRow, 0, len(e.snap.attrs)),
		Readiness:       e.snap.readiness,
		ReadinessTarget: e.rules.ReadinessTarget,
		CanLevelUp:      e.snap.readiness >= e.rules.ReadinessTarget,
		Dirty:           e.snap.isDirty(),
	}

	for pos, c := range e.snap.cells {
		row := SheetRow{
			Position:    pos,
			Name:        c.skill.Name,
			Major:       c.skill.Major,
			Value:       c.value,
			Increase:    c.increase(),
			Dirty:       c.dirty,
			Description: c.skill.Description,
		}
		if a, ok := e.maps.AttributeByID(c.skill.AttributeID); ok {
			row.Attribute = a.Name
		}
		if r, ok := e.maps.Hotkey(c.skill.ID); ok {
			row.Hotkey = string(r)
		}
		v.Rows = append(v.Rows, row)
	}
	for _, a := range e.snap.attrs {
		v.Attributes = append(v.Attributes, AttributeRow{
			Name:     a.attr.Name,
			Value:    a.value,
			Increase: a.increase,
		})
	}
	return v, nil
}

// LevelInfo describes one stored level for listings.
type LevelInfo struct {
	Level         int  `json:"level"`
	SkillRows     int  `json:"skill_rows"`
	AttributeRows int  `json:"attribute_rows"`
	Complete      bool `json:"complete"`
	Current       bool `json:"current"`
}

// Levels lists every level on record, ascending, with completeness against
// the reference counts.
func (e *Engine) Levels(ctx context.Context) ([]LevelInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return nil, ErrNoDatabase
	}
	summaries, err := e.st.Levels.Levels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LevelInfo, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, LevelInfo{
			Level:         s.Level,
			SkillRows:     s.SkillRows,
			AttributeRows: s.AttributeRows,
			Complete:      s.SkillRows == e.maps.SkillCount() && s.AttributeRows == e.maps.AttributeCount(),
			Current:       s.Level == e.snap.level,
		})
	}
	return out, nil
}
