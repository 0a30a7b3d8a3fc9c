package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "2026-01-01")
	if version != "v1.2.3" || commit != "abc123" || date != "2026-01-01" {
		t.Errorf("version = %q, commit = %q, date = %q", version, commit, date)
	}
}

func TestDefaultConfigPathPrefersLocal(t *testing.T) {
	dir := t.TempDir()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(orig) })

	// No local file: path points into the user config dir.
	if got := defaultConfigPath(); filepath.Base(got) != defaultConfigFile {
		t.Errorf("defaultConfigPath() = %q", got)
	}

	// With a local file, it wins.
	if err := os.WriteFile(defaultConfigFile, []byte(""), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := defaultConfigPath(); got != defaultConfigFile {
		t.Errorf("defaultConfigPath() = %q, want %q", got, defaultConfigFile)
	}
}
