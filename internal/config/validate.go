package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateGit(); err != nil {
		return err
	}
	if err := c.validateRelease(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if len(c.Upstream.Sources) == 0 {
		return errors.New("upstream.sources must list at least one source")
	}
	for i, src := range c.Upstream.Sources {
		if src.URL == "" {
			return fmt.Errorf("upstream.sources[%d].url must be set", i)
		}
		parsed, err := url.Parse(src.URL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("upstream.sources[%d].url must be an http(s) URL", i)
		}
	}
	return nil
}

func (c *Config) validateGit() error {
	if strings.TrimSpace(c.Git.AuthorName) == "" {
		return errors.New("git.author_name must be set")
	}
	if strings.TrimSpace(c.Git.AuthorEmail) == "" {
		return errors.New("git.author_email must be set")
	}
	return nil
}

func (c *Config) validateRelease() error {
	if len(c.Release.Artifacts) == 0 {
		return errors.New("release.artifacts must list at least one file")
	}
	if strings.TrimSpace(c.GitHub.Owner) == "" || strings.TrimSpace(c.GitHub.Repo) == "" {
		return errors.New("github.owner and github.repo must be set")
	}
	return nil
}
