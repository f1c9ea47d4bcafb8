package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, "tools.json", `{"sample_delta_time": 0.05, "scheme_aliases": ["robotstore"]}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got := cfg.GetSampleDeltaTime(); got != 0.05 {
		t.Errorf("sample delta = %g, want 0.05", got)
	}
	// omitted fields keep their defaults
	if !cfg.GetEnsureLastPoint() {
		t.Error("ensure_last_point default must be true")
	}
	if got := cfg.GetPlotTitle(); got != "trajectory" {
		t.Errorf("plot title default = %q", got)
	}
	if got := cfg.GetPlotMaxRows(); got != 10000 {
		t.Errorf("plot max rows default = %d", got)
	}
	if len(cfg.SchemeAliases) != 1 || cfg.SchemeAliases[0] != "robotstore" {
		t.Errorf("scheme aliases = %v", cfg.SchemeAliases)
	}
}

func TestLoadRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{"wrong extension", "tools.yaml", `{}`},
		{"bad json", "tools.json", `{`},
		{"non-positive delta", "tools.json", `{"sample_delta_time": 0}`},
		{"bad plot rows", "tools.json", `{"plot_max_rows": 0}`},
		{"empty search dir", "tools.json", `{"search_dirs": [""]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.body)
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
