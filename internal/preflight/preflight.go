package preflight

import (
	"context"

	"glyphpress/internal/config"
	"glyphpress/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Working repository (always checked)
	results = append(results, CheckDirectoryAccess("Working directory", cfg.Paths.WorkDir))
	results = append(results, CheckRepository("Working repository", cfg.Paths.WorkDir))

	results = append(results, CheckToken(cfg.GitHub.Token))
	results = append(results, CheckSources(cfg.Upstream.Sources))

	for _, source := range cfg.Upstream.Sources {
		results = append(results, CheckUpstream(ctx, source.Name, source.URL))
	}

	return results
}

// CheckSystemDeps evaluates all binary dependencies for the given config.
// The status command uses this alongside RunAll so the requirements list
// lives in one place.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	return deps.CheckBinaries(deps.Requirements(cfg))
}
