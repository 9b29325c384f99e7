package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"glyphpress/internal/config"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRepository verifies that the working directory is a git repository.
func CheckRepository(name, path string) Result {
	gitDir := filepath.Join(path, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s is not a git repository", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("stat %s: %v", gitDir, err)}
	}
	if !info.IsDir() {
		// Worktrees use a .git file; accept those too.
		return Result{Name: name, Passed: true, Detail: "git worktree"}
	}
	return Result{Name: name, Passed: true, Detail: "git repository"}
}

// CheckToken verifies that an API token is available for publishing.
func CheckToken(token string) Result {
	const name = "GitHub token"
	if strings.TrimSpace(token) == "" {
		return Result{Name: name, Detail: "GITHUB_TOKEN not set (publishing will fail)"}
	}
	return Result{Name: name, Passed: true, Detail: "present"}
}

// CheckSources verifies that at least one upstream source is configured.
func CheckSources(sources []config.Source) Result {
	const name = "Upstream sources"
	if len(sources) == 0 {
		return Result{Name: name, Detail: "no sources configured"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d configured", len(sources))}
}

// CheckUpstream verifies that an upstream source URL is reachable.
// It uses a 5-second timeout and a single attempt.
func CheckUpstream(ctx context.Context, name, url string) Result {
	label := fmt.Sprintf("Upstream %s", strings.TrimSpace(name))

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(checkCtx, http.MethodHead, url, nil)
	if err != nil {
		return Result{Name: label, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{Name: label, Detail: fmt.Sprintf("reachability check failed (%v)", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return Result{Name: label, Detail: fmt.Sprintf("server returned %d", resp.StatusCode)}
	}
	return Result{Name: label, Passed: true, Detail: "reachable"}
}
