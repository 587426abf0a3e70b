package vocab

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbedded(t *testing.T) {
	seeds, err := Load("")
	if err != nil {
		t.Fatalf("Load embedded: %v", err)
	}
	if len(seeds) < 100 {
		t.Errorf("expected at least 100 entries in embedded vocabulary, got %d", len(seeds))
	}
	for _, s := range seeds {
		if strings.HasPrefix(s, "#") {
			t.Errorf("found comment line in loaded vocabulary: %q", s)
		}
		if strings.TrimSpace(s) == "" {
			t.Error("found empty line in loaded vocabulary")
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.txt")
	content := "# comment\nusers\n\nposts\nusers\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	seeds, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(seeds) != 2 {
		t.Errorf("expected 2 deduplicated entries, got %d: %v", len(seeds), seeds)
	}
}

func TestLoadEmptyVocabulary(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vocab.txt")
	if err := os.WriteFile(path, []byte("# only comments\n\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for empty vocabulary")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing vocabulary file")
	}
}
