package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeUpstream()
	c.normalizeBuild()
	c.normalizeGit()
	c.normalizeChangelog()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkDir, err = ExpandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LockFile) == "" {
		c.Paths.LockFile = defaultLockFile
	}
	if c.Paths.LockFile, err = ExpandPath(c.Paths.LockFile); err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeUpstream() {
	if c.Upstream.RequestTimeout <= 0 {
		c.Upstream.RequestTimeout = defaultRequestTimeout
	}
	for i := range c.Upstream.Sources {
		src := &c.Upstream.Sources[i]
		src.Name = strings.TrimSpace(src.Name)
		src.URL = strings.TrimSpace(src.URL)
		if strings.TrimSpace(src.Dest) == "" {
			src.Dest = "."
		}
	}
}

func (c *Config) normalizeBuild() {
	if strings.TrimSpace(c.Build.Command) == "" {
		c.Build.Command = defaultBuildCommand
	}
	if strings.TrimSpace(c.Build.Manifest) == "" {
		c.Build.Manifest = defaultBuildManifest
	}
	if c.Build.Timeout <= 0 {
		c.Build.Timeout = defaultBuildTimeout
	}
}

func (c *Config) normalizeGit() {
	if strings.TrimSpace(c.Git.Remote) == "" {
		c.Git.Remote = defaultRemote
	}
	if strings.TrimSpace(c.Git.Branch) == "" {
		c.Git.Branch = defaultBranch
	}
	if strings.TrimSpace(c.Git.CommitMessage) == "" {
		c.Git.CommitMessage = defaultCommitMessage
	}
	if strings.TrimSpace(c.Git.TagSuffix) == "" {
		c.Git.TagSuffix = defaultTagSuffix
	}
}

func (c *Config) normalizeChangelog() {
	if c.Changelog.MaxGlyphs <= 0 {
		c.Changelog.MaxGlyphs = defaultMaxGlyphs
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}
