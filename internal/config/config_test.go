package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"patch-router/internal/route"
)

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RouteOptions() != route.DefaultOptions() {
		t.Errorf("routing = %+v, want defaults %+v", cfg.RouteOptions(), route.DefaultOptions())
	}
	if cfg.DebounceInterval() != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", cfg.DebounceInterval())
	}
	if cfg.Updater.QueueSize != 4096 {
		t.Errorf("queue size = %d, want 4096", cfg.Updater.QueueSize)
	}
	if cfg.Render.Scale != 1.0 {
		t.Errorf("scale = %v, want 1.0", cfg.Render.Scale)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Updater.DebounceMS != 50 {
		t.Errorf("debounce_ms = %d, want default 50", cfg.Updater.DebounceMS)
	}
}

func TestLoadPartialFileMergesDefaults(t *testing.T) {
	content := `
[routing]
tolerance = 5.0
max_nodes = 1000

[updater]
debounce_ms = 10
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Routing.Tolerance != 5.0 {
		t.Errorf("tolerance = %v, want 5.0", cfg.Routing.Tolerance)
	}
	if cfg.Routing.MaxNodes != 1000 {
		t.Errorf("max_nodes = %d, want 1000", cfg.Routing.MaxNodes)
	}
	if cfg.DebounceInterval() != 10*time.Millisecond {
		t.Errorf("debounce = %v, want 10ms", cfg.DebounceInterval())
	}
	// Unset fields fall back to the defaults.
	def := route.DefaultOptions()
	if cfg.Routing.MinResolution != def.MinResolution {
		t.Errorf("min_resolution = %d, want default %d", cfg.Routing.MinResolution, def.MinResolution)
	}
	if cfg.Updater.QueueSize != 4096 {
		t.Errorf("queue_size = %d, want default 4096", cfg.Updater.QueueSize)
	}
	if cfg.Render.Scale != 1.0 {
		t.Errorf("scale = %v, want default 1.0", cfg.Render.Scale)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[routing\ntolerance ="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("loading invalid TOML should fail")
	}
}
