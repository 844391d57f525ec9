package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/halvden/oblevel/internal/eventbus"
	"github.com/halvden/oblevel/internal/pkg/config"
	"github.com/halvden/oblevel/internal/repository"
	"github.com/halvden/oblevel/internal/service"
)

// Core holds the shared dependencies behind one open character file.
type Core struct {
	Cfg    *config.Config
	DB     *repository.Database
	Engine *service.Engine
	Hub    *eventbus.Hub

	cfgPath string
}

// Options selects the character file and config source.
type Options struct {
	ConfigPath string // empty means the default search path
	Database   string // empty means resolve from config
	Create     bool   // create a fresh file instead of opening one
	Level      int    // land on this stored level instead of the highest (0 = highest)
}

// ResolveDatabase picks the character file to work with: an explicit path
// wins, then the configured database, then the most recent file.
func ResolveDatabase(cfg *config.Config, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if cfg.Storage.Database != "" {
		return cfg.Storage.Database, nil
	}
	for _, p := range cfg.Storage.Recent {
		if p != "" {
			return p, nil
		}
	}
	return "", fmt.Errorf("no character file configured: pass a path or create one first")
}

// New loads configuration, opens (or creates) the character file, and
// attaches the leveling engine to it.
func New(ctx context.Context, opts Options) (*Core, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg.App.LogLevel)

	path, err := ResolveDatabase(cfg, opts.Database)
	if err != nil {
		return nil, err
	}

	var db *repository.Database
	if opts.Create {
		db, err = repository.Create(path)
	} else {
		db, err = repository.Open(path)
	}
	if err != nil {
		return nil, err
	}

	engine := service.NewEngine(service.Rules{
		MajorCap:        cfg.Rules.MajorCap,
		ReadinessTarget: cfg.Rules.ReadinessTarget,
	})
	st := service.Stores{
		Skills:     repository.NewSkillRepository(db.DB),
		Attributes: repository.NewAttributeRepository(db.DB),
		Levels:     repository.NewLevelRepository(db.DB),
	}
	if opts.Level > 0 {
		err = engine.OpenAt(ctx, st, path, opts.Level)
	} else {
		err = engine.Open(ctx, st, path)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	c := &Core{
		Cfg:     cfg,
		DB:      db,
		Engine:  engine,
		Hub:     eventbus.NewHub(),
		cfgPath: opts.ConfigPath,
	}
	c.rememberDatabase(path)
	return c, nil
}

// rememberDatabase records the opened file in the config's recent list.
// Best effort: a read-only config dir should not block the tool.
func (c *Core) rememberDatabase(path string) {
	c.Cfg.RememberDatabase(path)

	target := c.cfgPath
	if target == "" {
		var err error
		if target, err = config.DefaultConfigPath(); err != nil {
			slog.Warn("recent list not persisted", "error", err)
			return
		}
	}
	if err := config.WriteFile(target, c.Cfg); err != nil {
		slog.Warn("recent list not persisted", "path", target, "error", err)
	}
}

// Close detaches the engine and releases the database handle.
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	if c.Engine != nil {
		c.Engine.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
