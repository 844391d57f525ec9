package service

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDatabase means no character store is attached to the engine.
	ErrNoDatabase = errors.New("no database open")

	// ErrAlreadyOpen means the engine already has a store attached.
	ErrAlreadyOpen = errors.New("a database is already open")

	// ErrUnsavedChanges guards operations that would clobber or orphan
	// pending edits. The caller decides: save or discard, then retry.
	ErrUnsavedChanges = errors.New("unsaved changes: save or discard them first")

	// ErrLevelExists guards level-up against a next level that already has
	// rows; the caller should select that level instead.
	ErrLevelExists = errors.New("next level already exists")
)

// LevelNotFoundError reports a level without a complete record set when
// creation was not authorized.
type LevelNotFoundError struct {
	Level int
}

func (e *LevelNotFoundError) Error() string {
	return fmt.Sprintf("level %d not found", e.Level)
}

// CapacityError reports a proposed major set larger than the cap. Nothing is
// written when it is returned.
type CapacityError struct {
	Count int
	Max   int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%d major skills selected, at most %d allowed", e.Count, e.Max)
}
