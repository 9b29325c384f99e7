package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"glyphpress/internal/config"
	"glyphpress/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckRepository(t *testing.T) {
	dir := t.TempDir()
	if result := CheckRepository("repo", dir); result.Passed {
		t.Fatal("expected failure for non-repository directory")
	}
	testsupport.InitRepo(t, dir)
	if result := CheckRepository("repo", dir); !result.Passed {
		t.Fatalf("expected pass for initialized repository, got: %s", result.Detail)
	}
}

func TestCheckToken(t *testing.T) {
	if result := CheckToken("  "); result.Passed {
		t.Fatal("expected failure for blank token")
	}
	if result := CheckToken("ghp_example"); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckSources(t *testing.T) {
	if result := CheckSources(nil); result.Passed {
		t.Fatal("expected failure with no sources")
	}
	sources := []config.Source{{Name: "ufo", URL: "https://example.com/a.zip"}}
	if result := CheckSources(sources); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckUpstream_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := CheckUpstream(context.Background(), "fonts", srv.URL)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckUpstream_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	result := CheckUpstream(context.Background(), "fonts", srv.URL)
	if result.Passed {
		t.Fatal("expected failure for 404 response")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_CoversConfiguredChecks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testsupport.NewConfig(t)
	testsupport.InitRepo(t, cfg.Paths.WorkDir)
	cfg.GitHub.Token = "ghp_example"
	cfg.Upstream.Sources = []config.Source{{Name: "fonts", URL: srv.URL}}

	results := RunAll(context.Background(), cfg)
	// Directory, repository, token, sources, one upstream.
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}
