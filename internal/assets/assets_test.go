package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestManagerLoad(t *testing.T) {
	base := t.TempDir()
	override := t.TempDir()
	writeFile(t, filepath.Join(base, "tex", "wood grain.png"), "base")
	writeFile(t, filepath.Join(base, "only.png"), "only")
	writeFile(t, filepath.Join(override, "tex", "wood grain.png"), "override")

	m := NewManager(base, override)
	defer m.Close()

	tests := []struct {
		uri  string
		want string
	}{
		{"tex/wood%20grain.png", "override"},
		{"only.png", "only"},
		{"./tex/../only.png", "only"},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			data, err := m.Load(tt.uri)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("expected %q, got %q", tt.want, data)
			}
		})
	}
}

func TestManagerLoadErrors(t *testing.T) {
	m := NewManager(t.TempDir())

	if _, err := m.Load("missing.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	for _, uri := range []string{"../secret.png", "a/../../secret.png", "%zz"} {
		if _, err := m.Load(uri); err == nil || errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%q): expected rejection, got %v", uri, err)
		}
	}
}

func TestManagerCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	writeFile(t, path, "first")

	m := NewManager(dir)
	if _, err := m.Load("a.png"); err != nil {
		t.Fatal(err)
	}
	// Served from cache after the file changes.
	writeFile(t, path, "second")
	data, err := m.Load("a.png")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("expected cached content, got %q", data)
	}
	if hits, misses := m.Stats(); hits != 1 || misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d/%d", hits, misses)
	}

	m.Close()
	if hits, misses := m.Stats(); hits != 0 || misses != 0 {
		t.Errorf("expected cleared stats, got %d/%d", hits, misses)
	}
}
