package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"

	"glyphpress/internal/config"
	"glyphpress/internal/logging"
	"glyphpress/internal/services"
)

// ErrTagExists is returned when the computed tag name is already taken,
// typically because a second run completed on the same UTC date.
var ErrTagExists = errors.New("tag already exists")

// TagName formats the date-stamped tag for a run completing at now.
func TagName(now time.Time, suffix string) string {
	return now.UTC().Format("20060102") + suffix
}

// Publisher commits working-tree changes and publishes the date-stamped tag.
type Publisher struct {
	repo     *Repository
	remote   string
	branch   string
	author   string
	email    string
	message  string
	suffix   string
	token    string
	logger   *slog.Logger
}

// NewPublisher constructs a publisher from git configuration. The token is an
// explicit capability; components never read credentials from the
// environment themselves.
func NewPublisher(repo *Repository, cfg config.Git, token string, logger *slog.Logger) *Publisher {
	return &Publisher{
		repo:    repo,
		remote:  cfg.Remote,
		branch:  cfg.Branch,
		author:  cfg.AuthorName,
		email:   cfg.AuthorEmail,
		message: cfg.CommitMessage,
		suffix:  cfg.TagSuffix,
		token:   token,
		logger:  logging.NewComponentLogger(logger, "publish"),
	}
}

// Publish commits all working-tree changes, pushes the branch with a lease
// guard, creates the annotated date tag, and pushes it. Returns the tag name.
func (p *Publisher) Publish(ctx context.Context, now time.Time) (string, error) {
	tag := TagName(now, p.suffix)

	exists, err := p.repo.TagExists(tag)
	if err != nil {
		return "", err
	}
	if exists {
		return "", services.Wrap(services.ErrValidation, "publish", "tag",
			fmt.Sprintf("%s: a run already completed on this date", tag), ErrTagExists)
	}

	observed := p.observedRemoteHead()

	hash, err := p.commitAll(now)
	if err != nil {
		return "", err
	}
	p.logger.Info("changes committed",
		logging.String("commit", hash.String()[:7]),
		logging.String("message", p.message))

	if err := p.pushBranch(ctx, observed); err != nil {
		return "", err
	}

	if err := p.createTag(tag, hash, now); err != nil {
		return "", err
	}
	if err := p.pushTag(ctx, tag); err != nil {
		return "", err
	}

	p.logger.Info("tag published",
		logging.String("tag", tag),
		logging.String("commit", hash.String()[:7]))
	return tag, nil
}

func (p *Publisher) commitAll(now time.Time) (plumbing.Hash, error) {
	wt, err := p.repo.repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("stage changes: %w", err)
	}
	signature := &object.Signature{Name: p.author, Email: p.email, When: now}
	hash, err := wt.Commit(p.message, &git.CommitOptions{Author: signature, Committer: signature})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create commit: %w", err)
	}
	return hash, nil
}

// observedRemoteHead returns the last known position of the remote branch.
// A zero hash means the remote has never been observed, in which case the
// push proceeds without a lease.
func (p *Publisher) observedRemoteHead() plumbing.Hash {
	ref, err := p.repo.repo.Reference(plumbing.NewRemoteReferenceName(p.remote, p.branch), true)
	if err != nil {
		return plumbing.ZeroHash
	}
	return ref.Hash()
}

// pushBranch force-pushes the branch, refusing to overwrite history written
// by someone else since the remote was last observed.
func (p *Publisher) pushBranch(ctx context.Context, observed plumbing.Hash) error {
	branchRef := plumbing.NewBranchReferenceName(p.branch)
	opts := &git.PushOptions{
		RemoteName: p.remote,
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("+%s:%s", branchRef, branchRef)),
		},
		Auth: p.auth(),
	}
	if !observed.IsZero() {
		opts.RequireRemoteRefs = []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("%s:%s", observed, branchRef)),
		}
	}

	err := p.repo.repo.PushContext(ctx, opts)
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return services.Wrap(services.ErrTransient, "publish", "push",
			"remote rejected the branch push; the remote may have moved since last observed", err)
	}
	p.recordRemoteHead()
	return nil
}

// recordRemoteHead advances the remote-tracking ref to the pushed commit so
// the next run's lease check starts from what this run wrote.
func (p *Publisher) recordRemoteHead() {
	head, err := p.repo.Head()
	if err != nil {
		return
	}
	ref := plumbing.NewHashReference(plumbing.NewRemoteReferenceName(p.remote, p.branch), head)
	_ = p.repo.repo.Storer.SetReference(ref)
}

func (p *Publisher) createTag(name string, target plumbing.Hash, now time.Time) error {
	_, err := p.repo.repo.CreateTag(name, target, &git.CreateTagOptions{
		Tagger:  &object.Signature{Name: p.author, Email: p.email, When: now},
		Message: name,
	})
	if err != nil {
		return fmt.Errorf("create tag %s: %w", name, err)
	}
	return nil
}

func (p *Publisher) pushTag(ctx context.Context, name string) error {
	tagRef := plumbing.NewTagReferenceName(name)
	err := p.repo.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: p.remote,
		RefSpecs: []gitconfig.RefSpec{
			gitconfig.RefSpec(fmt.Sprintf("%s:%s", tagRef, tagRef)),
		},
		Auth: p.auth(),
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return services.Wrap(services.ErrTransient, "publish", "push tag", name, err)
	}
	return nil
}

func (p *Publisher) auth() *githttp.BasicAuth {
	if p.token == "" {
		return nil
	}
	return &githttp.BasicAuth{Username: "x-access-token", Password: p.token}
}
