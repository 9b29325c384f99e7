package release_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/google/go-github/v68/github"

	"glyphpress/internal/config"
	"glyphpress/internal/release"
	"glyphpress/internal/services"
	"glyphpress/internal/testsupport"
)

type fixture struct {
	cfg       *config.Config
	publisher *release.Publisher
	requests  *int64
	mux       *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mux := http.NewServeMux()
	var requests int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := testsupport.NewConfig(t)
	cfg.GitHub.Owner = "babelstone"
	cfg.GitHub.Repo = "babelstonehan-ufo"
	cfg.Release.Artifacts = []string{"fonts/BabelStoneHanBasic.ttf", "LICENSE"}

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	client.BaseURL = base
	client.UploadURL = base

	return &fixture{
		cfg:       cfg,
		publisher: release.NewWithClient(client, cfg, nil),
		requests:  &requests,
		mux:       mux,
	}
}

func (f *fixture) writeArtifacts(t *testing.T) {
	t.Helper()
	testsupport.WriteFile(t, f.cfg.Paths.WorkDir, "fonts/BabelStoneHanBasic.ttf", "ttf-bytes")
	testsupport.WriteFile(t, f.cfg.Paths.WorkDir, "LICENSE", "license text")
}

func TestPublishFailsFastOnMissingArtifact(t *testing.T) {
	f := newFixture(t)
	// Only one of the two declared artifacts exists.
	testsupport.WriteFile(t, f.cfg.Paths.WorkDir, "LICENSE", "license text")

	err := f.publisher.Publish(context.Background(), "20240305-beta", "notes")
	if err == nil {
		t.Fatal("expected missing artifact to fail the publish")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := atomic.LoadInt64(f.requests); got != 0 {
		t.Fatalf("expected no API calls before the manifest check, got %d", got)
	}
}

func TestPublishCreatesReleaseAndUploadsAssets(t *testing.T) {
	f := newFixture(t)
	f.writeArtifacts(t)

	var uploads []string
	f.mux.HandleFunc("GET /repos/babelstone/babelstonehan-ufo/releases/tags/20240305-beta",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		})
	f.mux.HandleFunc("POST /repos/babelstone/babelstonehan-ufo/releases",
		func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				TagName    string `json:"tag_name"`
				Body       string `json:"body"`
				Prerelease bool   `json:"prerelease"`
			}
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode create payload: %v", err)
			}
			if payload.TagName != "20240305-beta" || payload.Body != "notes" || !payload.Prerelease {
				t.Errorf("unexpected create payload: %+v", payload)
			}
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id": 7}`)
		})
	f.mux.HandleFunc("POST /repos/babelstone/babelstonehan-ufo/releases/7/assets",
		func(w http.ResponseWriter, r *http.Request) {
			uploads = append(uploads, r.URL.Query().Get("name"))
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id": 99}`)
		})

	if err := f.publisher.Publish(context.Background(), "20240305-beta", "notes"); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if len(uploads) != 2 {
		t.Fatalf("expected 2 asset uploads, got %v", uploads)
	}
	if uploads[0] != "BabelStoneHanBasic.ttf" || uploads[1] != "LICENSE" {
		t.Fatalf("unexpected upload order/names: %v", uploads)
	}
}

func TestPublishUpdatesExistingRelease(t *testing.T) {
	f := newFixture(t)
	f.writeArtifacts(t)

	var deleted, edited bool
	f.mux.HandleFunc("GET /repos/babelstone/babelstonehan-ufo/releases/tags/20240305-beta",
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id": 7, "assets": [{"id": 41, "name": "LICENSE"}]}`)
		})
	f.mux.HandleFunc("PATCH /repos/babelstone/babelstonehan-ufo/releases/7",
		func(w http.ResponseWriter, r *http.Request) {
			edited = true
			fmt.Fprint(w, `{"id": 7, "assets": [{"id": 41, "name": "LICENSE"}]}`)
		})
	f.mux.HandleFunc("DELETE /repos/babelstone/babelstonehan-ufo/releases/assets/41",
		func(w http.ResponseWriter, r *http.Request) {
			deleted = true
			w.WriteHeader(http.StatusNoContent)
		})
	f.mux.HandleFunc("POST /repos/babelstone/babelstonehan-ufo/releases/7/assets",
		func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"id": 99}`)
		})

	if err := f.publisher.Publish(context.Background(), "20240305-beta", "new notes"); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if !edited {
		t.Fatal("expected existing release body to be updated")
	}
	if !deleted {
		t.Fatal("expected stale asset with the same name to be replaced")
	}
}

func TestNewRequiresToken(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.GitHub.Token = ""
	if _, err := release.New(cfg, nil); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error without token, got %v", err)
	}
}
