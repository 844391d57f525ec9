package dto

// Package dto carries the wire contract of the local HTTP API. Persistence
// details stay in internal/schema; sheet logic stays in internal/service.
// Sheet and level payloads are served straight from the service views.

// IncrementRequestDTO bumps one skill by name or accelerator letter.
type IncrementRequestDTO struct {
	Skill string `json:"skill"`
}

// SelectLevelRequestDTO switches the sheet to another level. Create
// zero-fills missing rows instead of failing on an unknown level.
type SelectLevelRequestDTO struct {
	Level  int  `json:"level"`
	Create bool `json:"create,omitempty"`
}

// LevelUpRequestDTO closes the current level. Attributes maps attribute
// names to the values entered for the new level; Force skips the readiness
// check.
type LevelUpRequestDTO struct {
	Attributes map[string]int `json:"attributes,omitempty"`
	Force      bool           `json:"force,omitempty"`
}

// MajorsRequestDTO replaces the major skill set.
type MajorsRequestDTO struct {
	Skills []string `json:"skills"`
}
