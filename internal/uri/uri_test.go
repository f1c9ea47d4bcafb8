package uri

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		raw      string
		scheme   string
		path     string
		fragment string
	}{
		{"file:traj.bin", "file", "traj.bin", ""},
		{"file:scenes/a.bin#body1", "file", "scenes/a.bin", "body1"},
		{"robotstore:models/arm.bin", "robotstore", "models/arm.bin", ""},
		{"plain/path.bin", "", "plain/path.bin", ""},
		{"", "", "", ""},
		{"#frag", "", "", "frag"},
	}
	for _, tt := range tests {
		got := Parse(tt.raw)
		if got.Scheme != tt.scheme || got.Path != tt.path || got.Fragment != tt.fragment {
			t.Errorf("Parse(%q) = %+v, want {%s %s %s}", tt.raw, got, tt.scheme, tt.path, tt.fragment)
		}
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	name := "traj.bin"
	if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &Resolver{SearchDirs: []string{dir}, SchemeAliases: []string{"robotstore"}}

	if got := r.Resolve("file:" + name); got != filepath.Join(dir, name) {
		t.Errorf("file scheme resolved to %q", got)
	}
	if got := r.Resolve("robotstore:" + name); got != filepath.Join(dir, name) {
		t.Errorf("alias scheme resolved to %q", got)
	}
	if got := r.Resolve("file:" + name + "#fragment"); got != filepath.Join(dir, name) {
		t.Errorf("fragment must not affect resolution, got %q", got)
	}
	if got := r.Resolve("http://example.com/" + name); got != "" {
		t.Errorf("unknown scheme resolved to %q, want empty", got)
	}
	if got := r.Resolve(""); got != "" {
		t.Errorf("empty uri resolved to %q, want empty", got)
	}
	if got := r.Resolve("file:missing.bin"); got != "" {
		t.Errorf("missing file resolved to %q, want empty", got)
	}

	abs := filepath.Join(dir, name)
	if got := r.Resolve("file:" + abs); got != abs {
		t.Errorf("absolute path resolved to %q, want %q", got, abs)
	}
}
