// Package deps checks the external binaries glyphpress shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"glyphpress/internal/config"
)

// Requirement defines an external dependency glyphpress relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements derives the binary requirements from configuration.
func Requirements(cfg *config.Config) []Requirement {
	var reqs []Requirement
	if cfg != nil {
		reqs = append(reqs, Requirement{
			Name:        "Font build toolchain",
			Command:     cfg.Build.Command,
			Description: "external command that produces UFO and TTF artifacts",
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
