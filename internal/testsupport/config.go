// Package testsupport provides shared fixtures for glyphpress tests:
// scratch configurations and throwaway git repositories.
package testsupport

import (
	"path/filepath"
	"testing"

	"glyphpress/internal/config"
)

// NewConfig returns a validated configuration rooted in a temp directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.LockFile = filepath.Join(base, "glyphpress.lock")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}
