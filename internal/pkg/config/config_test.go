package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope", "config.yaml")); err == nil {
		t.Fatalf("explicit missing path accepted")
	}

	// A sparse file leaves everything else at defaults.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("app:\n  log_level: debug\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.App.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.App.LogLevel)
	}
	if cfg.Rules.MajorCap != 7 || cfg.Rules.ReadinessTarget != 10 {
		t.Fatalf("rule defaults = %+v", cfg.Rules)
	}
	if cfg.Web.ListenAddr == "" {
		t.Fatalf("missing listen addr default")
	}
}

func TestRememberDatabase(t *testing.T) {
	cfg := &Config{}
	cfg.Storage.Recent = []string{"b.db", "c.db"}

	cfg.RememberDatabase("a.db")
	if cfg.Storage.Database != "a.db" {
		t.Fatalf("database = %q, want a.db", cfg.Storage.Database)
	}
	want := []string{"a.db", "b.db", "c.db"}
	if len(cfg.Storage.Recent) != len(want) {
		t.Fatalf("recent = %v, want %v", cfg.Storage.Recent, want)
	}
	for i := range want {
		if cfg.Storage.Recent[i] != want[i] {
			t.Fatalf("recent = %v, want %v", cfg.Storage.Recent, want)
		}
	}

	// Re-opening an already listed file moves it forward, no duplicate.
	cfg.RememberDatabase("c.db")
	if cfg.Storage.Recent[0] != "c.db" || len(cfg.Storage.Recent) != 3 {
		t.Fatalf("recent after promote = %v", cfg.Storage.Recent)
	}

	for i := 0; i < 20; i++ {
		cfg.RememberDatabase(filepath.Join("many", string(rune('a'+i))+".db"))
	}
	if len(cfg.Storage.Recent) > recentLimit {
		t.Fatalf("recent grew to %d, limit %d", len(cfg.Storage.Recent), recentLimit)
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")

	cfg := &Config{}
	cfg.App.Name = "oblevel"
	cfg.App.LogLevel = "debug"
	cfg.Rules.MajorCap = 5
	cfg.Rules.ReadinessTarget = 12
	cfg.Web.ListenAddr = "127.0.0.1:9999"
	cfg.RememberDatabase("warrior.db")

	if err := WriteFile(path, cfg); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.App.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", loaded.App.LogLevel)
	}
	if loaded.Storage.Database != "warrior.db" {
		t.Fatalf("database = %q, want warrior.db", loaded.Storage.Database)
	}
	if len(loaded.Storage.Recent) != 1 || loaded.Storage.Recent[0] != "warrior.db" {
		t.Fatalf("recent = %v", loaded.Storage.Recent)
	}
	if loaded.Rules.MajorCap != 5 || loaded.Rules.ReadinessTarget != 12 {
		t.Fatalf("rules = %+v", loaded.Rules)
	}
	if loaded.Web.ListenAddr != "127.0.0.1:9999" {
		t.Fatalf("listen addr = %q", loaded.Web.ListenAddr)
	}
}
