package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir  string `toml:"work_dir"`
	LogDir   string `toml:"log_dir"`
	LockFile string `toml:"lock_file"`
}

// Source describes one upstream download target.
type Source struct {
	Name   string `toml:"name"`
	URL    string `toml:"url"`
	Dest   string `toml:"dest"`
	Unpack bool   `toml:"unpack"`
}

// Upstream contains configuration for fetching upstream font sources.
type Upstream struct {
	RequestTimeout int      `toml:"request_timeout"`
	Sources        []Source `toml:"sources"`
}

// Build contains configuration for the external font build toolchain.
type Build struct {
	Command  string   `toml:"command"`
	Args     []string `toml:"args"`
	Manifest string   `toml:"manifest"`
	Timeout  int      `toml:"timeout"`
}

// Git contains repository identity and publishing configuration.
type Git struct {
	Remote        string `toml:"remote"`
	Branch        string `toml:"branch"`
	AuthorName    string `toml:"author_name"`
	AuthorEmail   string `toml:"author_email"`
	CommitMessage string `toml:"commit_message"`
	TagSuffix     string `toml:"tag_suffix"`
}

// GitHub contains the release hosting configuration. Token is never read
// from the config file; it comes from the GITHUB_TOKEN environment variable
// during Load and is passed to components as an explicit value.
type GitHub struct {
	Owner         string `toml:"owner"`
	Repo          string `toml:"repo"`
	APIBaseURL    string `toml:"api_base_url"`
	UploadBaseURL string `toml:"upload_base_url"`
	Token         string `toml:"-"`
}

// Release contains the static artifact manifest attached to each release.
type Release struct {
	Artifacts  []string `toml:"artifacts"`
	Prerelease bool     `toml:"prerelease"`
}

// Changelog contains configuration for release note generation.
type Changelog struct {
	UFODirs       []string `toml:"ufo_dirs"`
	IncludeGlyphs bool     `toml:"include_glyphs"`
	MaxGlyphs     int      `toml:"max_glyphs"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains log output configuration.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root configuration for glyphpress.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Upstream      Upstream      `toml:"upstream"`
	Build         Build         `toml:"build"`
	Git           Git           `toml:"git"`
	GitHub        GitHub        `toml:"github"`
	Release       Release       `toml:"release"`
	Changelog     Changelog     `toml:"changelog"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the conventional config file location.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "glyphpress", "config.toml"), nil
}

// Load reads configuration from the provided path, or the default location
// when path is empty. Returns the config, the resolved path, and whether the
// file existed. Missing files are not an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	resolved := strings.TrimSpace(path)
	if resolved == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return nil, "", false, err
		}
		resolved = defaultPath
	}
	resolved, err := ExpandPath(resolved)
	if err != nil {
		return nil, "", false, fmt.Errorf("config path: %w", err)
	}

	cfg := Default()
	exists := false
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		exists = true
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, resolved, true, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, resolved, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		cfg.GitHub.Token = token
	}

	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the directories the pipeline needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir, filepath.Dir(c.Paths.LockFile)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure directory %s: %w", dir, err)
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the current user's home directory.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Clean(trimmed), nil
}
