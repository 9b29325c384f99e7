package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"glyphpress/internal/changelog"
	"glyphpress/internal/config"
	"glyphpress/internal/gitrepo"
	"glyphpress/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// openRepo opens the working repository and wraps failures with a hint about
// initial setup, since a missing clone is the most common first-run mistake.
func (c *commandContext) openRepo() (*gitrepo.Repository, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return gitrepo.Open(cfg.Paths.WorkDir)
}

// newChangelog builds a generator from the effective config. A non-nil
// glyphs pointer overrides the configured include_glyphs setting.
func (c *commandContext) newChangelog(glyphs *bool) (*changelog.Generator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	repo, err := c.openRepo()
	if err != nil {
		return nil, err
	}
	settings := cfg.Changelog
	if glyphs != nil {
		settings.IncludeGlyphs = *glyphs
	}
	return changelog.New(repo, settings, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
