package release

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v68/github"
	"golang.org/x/oauth2"

	"glyphpress/internal/config"
	"glyphpress/internal/fileutil"
	"glyphpress/internal/logging"
	"glyphpress/internal/services"
)

// Publisher creates hosted releases and uploads the artifact manifest.
type Publisher struct {
	client     *github.Client
	owner      string
	repo       string
	workDir    string
	artifacts  []string
	prerelease bool
	logger     *slog.Logger
}

// New constructs a publisher from configuration. The token is required; it
// is passed in explicitly rather than read from the environment here.
func New(cfg *config.Config, logger *slog.Logger) (*Publisher, error) {
	token := strings.TrimSpace(cfg.GitHub.Token)
	if token == "" {
		return nil, services.Wrap(services.ErrConfiguration, "release", "auth",
			"no token available; set GITHUB_TOKEN with repo and release scopes", nil)
	}
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client := github.NewClient(httpClient)
	if cfg.GitHub.APIBaseURL != "" {
		upload := cfg.GitHub.UploadBaseURL
		if upload == "" {
			upload = cfg.GitHub.APIBaseURL
		}
		enterprise, err := client.WithEnterpriseURLs(cfg.GitHub.APIBaseURL, upload)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "release", "base url", cfg.GitHub.APIBaseURL, err)
		}
		client = enterprise
	}
	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient constructs a publisher around an existing API client.
func NewWithClient(client *github.Client, cfg *config.Config, logger *slog.Logger) *Publisher {
	return &Publisher{
		client:     client,
		owner:      cfg.GitHub.Owner,
		repo:       cfg.GitHub.Repo,
		workDir:    cfg.Paths.WorkDir,
		artifacts:  append([]string(nil), cfg.Release.Artifacts...),
		prerelease: cfg.Release.Prerelease,
		logger:     logging.NewComponentLogger(logger, "release"),
	}
}

// Publish creates (or updates) the release for tag with the given body and
// uploads every artifact in the manifest. The artifact list is
// all-or-nothing: if any file is missing, nothing is published.
func (p *Publisher) Publish(ctx context.Context, tag, body string) error {
	paths := make([]string, 0, len(p.artifacts))
	for _, artifact := range p.artifacts {
		paths = append(paths, filepath.Join(p.workDir, artifact))
	}
	if missing := fileutil.FilesExist(paths); len(missing) > 0 {
		return services.Wrap(services.ErrValidation, "release", "artifacts",
			fmt.Sprintf("missing artifact files: %s", strings.Join(missing, ", ")), nil)
	}

	rel, err := p.ensureRelease(ctx, tag, body)
	if err != nil {
		return err
	}

	for _, path := range paths {
		if err := p.uploadAsset(ctx, rel, path); err != nil {
			return err
		}
	}

	p.logger.Info("release published",
		logging.String("tag", tag),
		logging.Int("assets", len(paths)))
	return nil
}

func (p *Publisher) ensureRelease(ctx context.Context, tag, body string) (*github.RepositoryRelease, error) {
	existing, resp, err := p.client.Repositories.GetReleaseByTag(ctx, p.owner, p.repo, tag)
	switch {
	case err == nil:
		existing.Body = github.Ptr(body)
		updated, _, err := p.client.Repositories.EditRelease(ctx, p.owner, p.repo, existing.GetID(), existing)
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "release", "update", tag, err)
		}
		p.logger.Info("existing release updated", logging.String("tag", tag))
		return updated, nil
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		created, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
			TagName:    github.Ptr(tag),
			Name:       github.Ptr(tag),
			Body:       github.Ptr(body),
			Prerelease: github.Ptr(p.prerelease),
		})
		if err != nil {
			return nil, services.Wrap(services.ErrTransient, "release", "create", tag, err)
		}
		p.logger.Info("release created", logging.String("tag", tag))
		return created, nil
	default:
		return nil, services.Wrap(services.ErrTransient, "release", "lookup", tag, err)
	}
}

func (p *Publisher) uploadAsset(ctx context.Context, rel *github.RepositoryRelease, path string) error {
	name := filepath.Base(path)
	if err := p.removeStaleAsset(ctx, rel, name); err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "release", "open asset", path, err)
	}
	defer file.Close()

	_, _, err = p.client.Repositories.UploadReleaseAsset(ctx, p.owner, p.repo, rel.GetID(),
		&github.UploadOptions{Name: name}, file)
	if err != nil {
		return services.Wrap(services.ErrTransient, "release", "upload asset", name, err)
	}
	p.logger.Info("asset uploaded", logging.String("asset", name))
	return nil
}

// removeStaleAsset deletes a previously uploaded asset with the same name so
// re-running a release replaces artifacts instead of failing.
func (p *Publisher) removeStaleAsset(ctx context.Context, rel *github.RepositoryRelease, name string) error {
	for _, asset := range rel.Assets {
		if asset.GetName() != name {
			continue
		}
		if _, err := p.client.Repositories.DeleteReleaseAsset(ctx, p.owner, p.repo, asset.GetID()); err != nil {
			return services.Wrap(services.ErrTransient, "release", "replace asset", name, err)
		}
	}
	return nil
}
