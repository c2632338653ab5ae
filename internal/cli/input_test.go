package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadDescription(t *testing.T) {
	got, err := readDescription([]string{"senior", "bankers"}, "", strings.NewReader("ignored"))
	if err != nil || got != "senior bankers" {
		t.Errorf("Expected args to win, got %q (%v)", got, err)
	}

	path := filepath.Join(t.TempDir(), "brief.txt")
	if err := os.WriteFile(path, []byte("  from file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = readDescription(nil, path, strings.NewReader("ignored"))
	if err != nil || got != "from file" {
		t.Errorf("Expected file contents, got %q (%v)", got, err)
	}

	got, err = readDescription(nil, "", strings.NewReader("from stdin\n"))
	if err != nil || got != "from stdin" {
		t.Errorf("Expected stdin contents, got %q (%v)", got, err)
	}

	if _, err := readDescription(nil, "", strings.NewReader("   ")); err == nil {
		t.Error("Expected error for blank description")
	}
	if _, err := readDescription(nil, filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("Expected error for missing file")
	}
}
