package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glyphpress/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GITHUB_TOKEN", "ghs_test")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantWork := filepath.Join(tempHome, ".local", "share", "glyphpress", "work")
	if cfg.Paths.WorkDir != wantWork {
		t.Fatalf("unexpected work dir: got %q want %q", cfg.Paths.WorkDir, wantWork)
	}
	if cfg.GitHub.Token != "ghs_test" {
		t.Fatalf("expected token from env, got %q", cfg.GitHub.Token)
	}
	if cfg.Git.TagSuffix != "-beta" {
		t.Fatalf("unexpected tag suffix: %q", cfg.Git.TagSuffix)
	}
	if cfg.Git.CommitMessage != "Update" {
		t.Fatalf("unexpected commit message: %q", cfg.Git.CommitMessage)
	}
	if len(cfg.Release.Artifacts) != 4 {
		t.Fatalf("expected 4 default artifacts, got %d", len(cfg.Release.Artifacts))
	}
	if !cfg.Release.Prerelease {
		t.Fatal("expected releases to default to prerelease")
	}
	if len(cfg.Changelog.UFODirs) != 3 {
		t.Fatalf("expected 3 UFO dirs, got %d", len(cfg.Changelog.UFODirs))
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
work_dir = "` + dir + `/tree"

[upstream]
request_timeout = 0

[[upstream.sources]]
name = "src"
url = "https://example.com/fonts.zip"
unpack = true

[git]
author_name = "Release Bot"
author_email = "bot@example.com"
branch = ""

[github]
owner = "example"
repo = "fonts"

[release]
artifacts = ["fonts/Example.ttf"]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported present")
	}
	if cfg.Git.Branch != "master" {
		t.Fatalf("expected empty branch to normalize to master, got %q", cfg.Git.Branch)
	}
	if cfg.Upstream.RequestTimeout <= 0 {
		t.Fatalf("expected request timeout normalization, got %d", cfg.Upstream.RequestTimeout)
	}
	if cfg.Upstream.Sources[0].Dest != "." {
		t.Fatalf("expected empty dest to default to '.', got %q", cfg.Upstream.Sources[0].Dest)
	}
}

func TestValidateRejectsMissingArtifacts(t *testing.T) {
	cfg := config.Default()
	cfg.Release.Artifacts = nil
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "release.artifacts") {
		t.Fatalf("expected artifact validation error, got %v", err)
	}
}

func TestValidateRejectsBadSourceURL(t *testing.T) {
	cfg := config.Default()
	cfg.Upstream.Sources[0].URL = "ftp://example.com/fonts.zip"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "http(s)") {
		t.Fatalf("expected URL validation error, got %v", err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[upstream]") {
		t.Fatal("expected sample config content")
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
}

func TestExpandPathHome(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	got, err := config.ExpandPath("~/work")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	if got != filepath.Join(tempHome, "work") {
		t.Fatalf("unexpected expansion: %q", got)
	}
}
