package testsupport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Author is the fixed signature used for fixture commits and tags.
var Author = object.Signature{Name: "Test Author", Email: "test@example.com"}

// InitRepo creates a non-bare repository in dir.
func InitRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return repo
}

// InitBareRemote creates a bare repository in a temp directory and returns
// its path for use as a local remote URL.
func InitBareRemote(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, true); err != nil {
		t.Fatalf("init bare remote: %v", err)
	}
	return dir
}

// AddRemote wires a named remote pointing at url.
func AddRemote(t *testing.T, repo *git.Repository, name, url string) {
	t.Helper()
	_, err := repo.CreateRemote(&gitconfig.RemoteConfig{Name: name, URLs: []string{url}})
	if err != nil {
		t.Fatalf("create remote %s: %v", name, err)
	}
}

// WriteFile writes content beneath the repository working tree.
func WriteFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

// Commit stages everything and commits with the fixture author at the given
// time.
func Commit(t *testing.T, repo *git.Repository, message string, when time.Time) plumbing.Hash {
	t.Helper()
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		t.Fatalf("stage: %v", err)
	}
	signature := Author
	signature.When = when
	hash, err := wt.Commit(message, &git.CommitOptions{Author: &signature, Committer: &signature})
	if err != nil {
		t.Fatalf("commit %q: %v", message, err)
	}
	return hash
}

// AnnotatedTag creates an annotated tag pointing at target.
func AnnotatedTag(t *testing.T, repo *git.Repository, name string, target plumbing.Hash, when time.Time) {
	t.Helper()
	signature := Author
	signature.When = when
	_, err := repo.CreateTag(name, target, &git.CreateTagOptions{Tagger: &signature, Message: name})
	if err != nil {
		t.Fatalf("create tag %s: %v", name, err)
	}
}
