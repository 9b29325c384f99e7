package gitrepo

import (
	"context"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"glyphpress/internal/services"
)

// Repository wraps a git working tree for change detection and publishing.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens the repository rooted at path.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "git", "open", fmt.Sprintf("no repository at %s", path), err)
	}
	return &Repository{repo: repo, path: path}, nil
}

// Path returns the working tree root.
func (r *Repository) Path() string { return r.path }

// Underlying exposes the go-git repository for read-only consumers.
func (r *Repository) Underlying() *git.Repository { return r.repo }

// Updated reports whether the working tree differs from HEAD. Any addition,
// deletion, or modification counts; there is no semantic diffing of font
// content. Read-only.
func (r *Repository) Updated(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	wt, err := r.repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("worktree status: %w", err)
	}
	return !status.IsClean(), nil
}

// Head returns the current HEAD commit hash.
func (r *Repository) Head() (plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash(), nil
}

// LatestTag returns the most recently created tag, using the tagger
// timestamp for annotated tags and the committer timestamp for lightweight
// ones. ok is false when the repository has no tags.
func (r *Repository) LatestTag() (name string, ok bool, err error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return "", false, fmt.Errorf("list tags: %w", err)
	}

	var newest time.Time
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		created, err := r.tagCreated(ref)
		if err != nil {
			return err
		}
		if !ok || created.After(newest) ||
			(created.Equal(newest) && ref.Name().Short() > name) {
			name = ref.Name().Short()
			newest = created
			ok = true
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return name, ok, nil
}

func (r *Repository) tagCreated(ref *plumbing.Reference) (time.Time, error) {
	if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
		return tagObj.Tagger.When, nil
	}
	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return time.Time{}, fmt.Errorf("resolve tag %s target: %w", ref.Name().Short(), err)
	}
	return commit.Committer.When, nil
}

// TagExists reports whether a tag with the given name exists.
func (r *Repository) TagExists(name string) (bool, error) {
	_, err := r.repo.Reference(plumbing.NewTagReferenceName(name), false)
	switch err {
	case nil:
		return true, nil
	case plumbing.ErrReferenceNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("lookup tag %s: %w", name, err)
	}
}
