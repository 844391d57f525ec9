package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/halvden/oblevel/internal/pkg/config"
	"github.com/halvden/oblevel/internal/repository"
)

func TestResolveDatabaseOrder(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Database = "configured.db"
	cfg.Storage.Recent = []string{"recent.db", "older.db"}

	if got, _ := ResolveDatabase(cfg, "explicit.db"); got != "explicit.db" {
		t.Fatalf("explicit path lost: %q", got)
	}
	if got, _ := ResolveDatabase(cfg, ""); got != "configured.db" {
		t.Fatalf("configured path lost: %q", got)
	}

	cfg.Storage.Database = ""
	if got, _ := ResolveDatabase(cfg, ""); got != "recent.db" {
		t.Fatalf("recent path lost: %q", got)
	}

	cfg.Storage.Recent = nil
	if _, err := ResolveDatabase(cfg, ""); err == nil {
		t.Fatalf("empty config resolved a path")
	}
}

func testConfigPath(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  log_level: error\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewCreateAndReopen(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := testConfigPath(t, tmp)
	dbPath := filepath.Join(tmp, "char.db")
	ctx := context.Background()

	core, err := New(ctx, Options{ConfigPath: cfgPath, Database: dbPath, Create: true})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if level, ok := core.Engine.CurrentLevel(); !ok || level != 1 {
		t.Fatalf("fresh file at level %d/%v", level, ok)
	}
	if err := core.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	// The created file is recorded and resolves without an explicit path.
	reloaded, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if reloaded.Storage.Database != dbPath {
		t.Fatalf("database not remembered: %q", reloaded.Storage.Database)
	}

	core, err = New(ctx, Options{ConfigPath: cfgPath})
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer core.Close()
	if core.Engine.Path() != dbPath {
		t.Fatalf("reopened %q, want %q", core.Engine.Path(), dbPath)
	}
}

func TestNewAtStoredLevel(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := testConfigPath(t, tmp)
	dbPath := filepath.Join(tmp, "char.db")
	ctx := context.Background()

	core, err := New(ctx, Options{ConfigPath: cfgPath, Database: dbPath, Create: true})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if err := core.Engine.SelectLevel(ctx, 2, true); err != nil {
		t.Fatalf("SelectLevel error: %v", err)
	}
	if err := core.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}

	core, err = New(ctx, Options{ConfigPath: cfgPath, Database: dbPath, Level: 1})
	if err != nil {
		t.Fatalf("reopen at level error: %v", err)
	}
	defer core.Close()
	if level, ok := core.Engine.CurrentLevel(); !ok || level != 1 {
		t.Fatalf("landed on level %d/%v, want 1", level, ok)
	}
}

func TestNewMissingFile(t *testing.T) {
	tmp := t.TempDir()
	cfgPath := testConfigPath(t, tmp)

	_, err := New(context.Background(), Options{
		ConfigPath: cfgPath,
		Database:   filepath.Join(tmp, "nope.db"),
	})
	var schemaErr *repository.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want SchemaError", err)
	}
}
