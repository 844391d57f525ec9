package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/halvden/oblevel/internal/repository"
)

// Rules are the tunable leveling constants.
type Rules struct {
	MajorCap        int // most skills that may be flagged major
	ReadinessTarget int // major increases needed before a level-up
}

// DefaultRules matches the game: 7 majors, level-up at 10 increases.
func DefaultRules() Rules {
	return Rules{MajorCap: 7, ReadinessTarget: 10}
}

// Stores bundles the repositories behind one open character file.
type Stores struct {
	Skills     SkillRepository
	Attributes AttributeRepository
	Levels     LevelRepository
}

// Engine drives one character sheet: attach a store, load a level,
// accumulate increments in memory, persist them explicitly. Methods
// serialize on an internal mutex so concurrent callers observe whole
// operations only.
type Engine struct {
	mu    sync.Mutex
	rules Rules

	st   Stores
	path string
	open bool

	maps *IndexMaps
	snap *snapshot
}

// NewEngine creates a detached engine. Zero rule fields fall back to the
// defaults.
func NewEngine(rules Rules) *Engine {
	if rules.MajorCap <= 0 {
		rules.MajorCap = DefaultRules().MajorCap
	}
	if rules.ReadinessTarget <= 0 {
		rules.ReadinessTarget = DefaultRules().ReadinessTarget
	}
	return &Engine{rules: rules}
}

// Open attaches a validated store and loads the highest level on record,
// zero-filling any rows that level is missing first. path is carried for
// display; the underlying handle stays with its owner.
func (e *Engine) Open(ctx context.Context, st Stores, path string) error {
	return e.attach(ctx, st, path, 0)
}

// OpenAt attaches like Open but lands on a requested level instead of the
// highest one. The level must already hold a complete record set; nothing is
// created on this path.
func (e *Engine) OpenAt(ctx context.Context, st Stores, path string, level int) error {
	if level < 1 {
		return &LevelNotFoundError{Level: level}
	}
	return e.attach(ctx, st, path, level)
}

// attach does the shared open work; target 0 means the highest stored level.
func (e *Engine) attach(ctx context.Context, st Stores, path string, target int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.open {
		return ErrAlreadyOpen
	}

	maps, err := buildMaps(ctx, st, path)
	if err != nil {
		return err
	}

	e.st = st
	e.path = path
	e.maps = maps
	e.open = true
	if err := e.land(ctx, target); err != nil {
		e.reset()
		return err
	}

	slog.Info("character loaded", "path", path, "level", e.snap.level, "skills", maps.SkillCount())
	return nil
}

// land places the freshly attached engine on its first level: the highest
// stored one (completed if torn) for target 0, or exactly the requested
// complete level otherwise. Callers hold e.mu.
func (e *Engine) land(ctx context.Context, target int) error {
	if target == 0 {
		level, _, err := e.st.Levels.MaxLevel(ctx)
		if err != nil {
			return err
		}
		return e.ensureAndLoad(ctx, level)
	}
	complete, err := e.levelComplete(ctx, target)
	if err != nil {
		return err
	}
	if !complete {
		return &LevelNotFoundError{Level: target}
	}
	return e.loadLevel(ctx, target)
}

// Close detaches the store, dropping any unsaved changes. Callers that care
// check Dirty first.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return
	}
	slog.Info("character closed", "path", e.path)
	e.reset()
}

func (e *Engine) reset() {
	e.st = Stores{}
	e.path = ""
	e.open = false
	e.maps = nil
	e.snap = nil
}

func buildMaps(ctx context.Context, st Stores, path string) (*IndexMaps, error) {
	skills, err := st.Skills.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	attrs, err := st.Attributes.List(ctx)
	if err != nil {
		return nil, err
	}
	maps, err := NewIndexMaps(skills, attrs)
	if err != nil {
		var se *repository.SchemaError
		if errors.As(err, &se) && se.Path == "" {
			se.Path = path
		}
		return nil, err
	}
	return maps, nil
}

// ensureAndLoad completes a level and loads it. Callers hold e.mu.
func (e *Engine) ensureAndLoad(ctx context.Context, level int) error {
	created, err := e.st.Levels.EnsureLevelRows(ctx, level, e.maps.SkillIDs(), e.maps.AttributeIDs())
	if err != nil {
		return err
	}
	if created > 0 {
		slog.Info("level completed", "level", level, "rows", created)
	}
	return e.loadLevel(ctx, level)
}

// loadLevel replaces the snapshot with a fresh read of level. On failure the
// previous snapshot stays loaded. Callers hold e.mu.
func (e *Engine) loadLevel(ctx context.Context, level int) error {
	skillRows, err := e.st.Levels.SkillLevels(ctx, level)
	if err != nil {
		return err
	}
	attrRows, err := e.st.Levels.AttributeLevels(ctx, level)
	if err != nil {
		return err
	}
	snap, err := newSnapshot(e.maps, level, skillRows, attrRows)
	if err != nil {
		return err
	}
	e.snap = snap
	return nil
}

func (e *Engine) levelComplete(ctx context.Context, level int) (bool, error) {
	skillRows, err := e.st.Levels.SkillLevels(ctx, level)
	if err != nil {
		return false, err
	}
	if len(skillRows) != e.maps.SkillCount() {
		return false, nil
	}
	attrRows, err := e.st.Levels.AttributeLevels(ctx, level)
	if err != nil {
		return false, err
	}
	return len(attrRows) == e.maps.AttributeCount(), nil
}

// IncrementSkill bumps the skill at a sheet position by one, pulling the
// governing attribute aggregate and readiness along. Memory only; nothing
// reaches the store until Save. Returns the new value and in-level increase.
func (e *Engine) IncrementSkill(pos int) (int, int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return 0, 0, ErrNoDatabase
	}
	return e.snap.increment(pos)
}

// Save flushes every dirty skill value and affected attribute aggregate in
// one transaction. A clean sheet writes nothing. On failure the dirty set is
// kept whole, so the next Save retries exactly the same rows.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(ctx)
}

func (e *Engine) saveLocked(ctx context.Context) error {
	if !e.open {
		return ErrNoDatabase
	}
	if !e.snap.isDirty() {
		return nil
	}
	skills := e.snap.dirtySkillValues()
	attrs := e.snap.dirtyAttrValues()
	if err := e.st.Levels.SaveValues(ctx, e.snap.level, skills, attrs); err != nil {
		return err
	}
	e.snap.clearDirty()
	slog.Info("saved", "level", e.snap.level, "skills", len(skills), "attributes", len(attrs))
	return nil
}

// Discard drops unsaved changes by reloading the current level.
func (e *Engine) Discard(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return ErrNoDatabase
	}
	return e.loadLevel(ctx, e.snap.level)
}

// SelectLevel switches the sheet to another level. Without create the level
// must already hold a complete record set; with create, missing rows are
// zero-filled first. Pending changes must be saved or discarded before
// switching.
func (e *Engine) SelectLevel(ctx context.Context, level int, create bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return ErrNoDatabase
	}
	if e.snap.isDirty() {
		return ErrUnsavedChanges
	}
	if level < 1 {
		return &LevelNotFoundError{Level: level}
	}

	if create {
		if err := e.ensureAndLoad(ctx, level); err != nil {
			return err
		}
	} else {
		complete, err := e.levelComplete(ctx, level)
		if err != nil {
			return err
		}
		if !complete {
			return &LevelNotFoundError{Level: level}
		}
		if err := e.loadLevel(ctx, level); err != nil {
			return err
		}
	}
	slog.Info("level selected", "level", level)
	return nil
}

// EnsureLevelComplete zero-fills whatever rows level is missing, reporting
// how many were created; 0 means the level already existed in full. The
// loaded sheet is untouched.
func (e *Engine) EnsureLevelComplete(ctx context.Context, level int) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return 0, ErrNoDatabase
	}
	if level < 1 {
		return 0, &LevelNotFoundError{Level: level}
	}
	return e.st.Levels.EnsureLevelRows(ctx, level, e.maps.SkillIDs(), e.maps.AttributeIDs())
}

// LevelUp closes out the current level and starts the next: pending changes
// are saved, every skill and attribute is carried forward in one transaction
// with the given attribute values applied for the new level, and the sheet
// moves there. The readiness threshold is advisory; callers gate on
// CanLevelUp.
func (e *Engine) LevelUp(ctx context.Context, attrOverrides map[uint]int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return ErrNoDatabase
	}
	for id := range attrOverrides {
		if _, ok := e.maps.AttributeByID(id); !ok {
			return fmt.Errorf("unknown attribute id %d", id)
		}
	}

	cur := e.snap.level
	next := cur + 1
	rows, err := e.st.Levels.SkillLevels(ctx, next)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return fmt.Errorf("%w: level %d", ErrLevelExists, next)
	}

	if err := e.saveLocked(ctx); err != nil {
		return err
	}
	if err := e.st.Levels.CarryForward(ctx, cur, next, attrOverrides); err != nil {
		return err
	}
	if err := e.loadLevel(ctx, next); err != nil {
		return err
	}
	slog.Info("leveled up", "from", cur, "to", next)
	return nil
}

// EditLevel writes direct value corrections to any stored level. The sheet
// must be clean first so corrections and pending increments cannot mix; if
// the edited level is the loaded one it is reloaded afterwards.
func (e *Engine) EditLevel(ctx context.Context, level int, skillValues, attrValues map[uint]int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return ErrNoDatabase
	}
	if e.snap.isDirty() {
		return ErrUnsavedChanges
	}
	if len(skillValues) == 0 && len(attrValues) == 0 {
		return nil
	}
	for id := range skillValues {
		if _, ok := e.maps.SkillByID(id); !ok {
			return fmt.Errorf("unknown skill id %d", id)
		}
	}
	for id := range attrValues {
		if _, ok := e.maps.AttributeByID(id); !ok {
			return fmt.Errorf("unknown attribute id %d", id)
		}
	}

	complete, err := e.levelComplete(ctx, level)
	if err != nil {
		return err
	}
	if !complete {
		return &LevelNotFoundError{Level: level}
	}
	if err := e.st.Levels.SaveValues(ctx, level, skillValues, attrValues); err != nil {
		return err
	}
	slog.Info("level edited", "level", level, "skills", len(skillValues), "attributes", len(attrValues))
	if level == e.snap.level {
		return e.loadLevel(ctx, level)
	}
	return nil
}

// ReassignMajors replaces the major set by skill name. The cap is enforced
// before anything is written; on success the maps are rebuilt and the sheet
// reloaded, since positions shift with the groups.
func (e *Engine) ReassignMajors(ctx context.Context, names []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return ErrNoDatabase
	}
	if e.snap.isDirty() {
		return ErrUnsavedChanges
	}

	ids := make([]uint, 0, len(names))
	seen := make(map[uint]bool, len(names))
	for _, name := range names {
		id, ok := e.maps.SkillIDByName(name)
		if !ok {
			return fmt.Errorf("unknown skill %q", name)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) > e.rules.MajorCap {
		return &CapacityError{Count: len(ids), Max: e.rules.MajorCap}
	}

	if err := e.st.Skills.SetMajors(ctx, ids); err != nil {
		return err
	}
	maps, err := buildMaps(ctx, e.st, e.path)
	if err != nil {
		return err
	}
	e.maps = maps
	if err := e.loadLevel(ctx, e.snap.level); err != nil {
		return err
	}
	slog.Info("majors reassigned", "count", len(ids))
	return nil
}

// ResolveSkill turns a skill name or single accelerator letter into a sheet
// position.
func (e *Engine) ResolveSkill(selector string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return 0, ErrNoDatabase
	}
	if id, ok := e.maps.SkillIDByName(selector); ok {
		pos, _ := e.maps.PositionOf(id)
		return pos, nil
	}
	if runes := []rune(strings.TrimSpace(selector)); len(runes) == 1 {
		if id, ok := e.maps.SkillIDByHotkey(runes[0]); ok {
			pos, _ := e.maps.PositionOf(id)
			return pos, nil
		}
	}
	return 0, fmt.Errorf("unknown skill %q", selector)
}

// ResolveSkillID turns a skill name or single accelerator letter into the
// stable skill id.
func (e *Engine) ResolveSkillID(selector string) (uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return 0, ErrNoDatabase
	}
	if id, ok := e.maps.SkillIDByName(selector); ok {
		return id, nil
	}
	if runes := []rune(strings.TrimSpace(selector)); len(runes) == 1 {
		if id, ok := e.maps.SkillIDByHotkey(runes[0]); ok {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown skill %q", selector)
}

// ResolveAttribute turns an attribute name into its id.
func (e *Engine) ResolveAttribute(name string) (uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return 0, ErrNoDatabase
	}
	id, ok := e.maps.AttributeIDByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown attribute %q", name)
	}
	return id, nil
}

// CurrentLevel reports the loaded level, false when nothing is open.
func (e *Engine) CurrentLevel() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return 0, false
	}
	return e.snap.level, true
}

// Dirty reports whether unsaved changes exist.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open && e.snap.isDirty()
}

// Readiness reports the summed major-skill increases of the loaded level.
func (e *Engine) Readiness() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return 0
	}
	return e.snap.readiness
}

// ReadinessTarget reports the configured level-up threshold.
func (e *Engine) ReadinessTarget() int {
	return e.rules.ReadinessTarget
}

// CanLevelUp reports whether readiness has reached the target.
func (e *Engine) CanLevelUp() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open && e.snap.readiness >= e.rules.ReadinessTarget
}

// Path reports the open store's path, empty when detached.
func (e *Engine) Path() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.path
}

// MajorNames returns the current major skills in sheet order.
func (e *Engine) MajorNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return nil
	}
	return e.namesFor(e.maps.MajorIDs())
}

// MinorNames returns the current minor skills in sheet order.
func (e *Engine) MinorNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.open {
		return nil
	}
	return e.namesFor(e.maps.MinorIDs())
}

func (e *Engine) namesFor(ids []uint) []string {
	var names []string
	for _, id := range ids {
		if s, ok := e.maps.SkillByID(id); ok {
			names = append(names, s.Name)
		}
	}
	return names
}
