package changelog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"glyphpress/internal/config"
	"glyphpress/internal/gitrepo"
	"glyphpress/internal/logging"
	"glyphpress/internal/services"
)

// ErrReferenceNotFound is returned when the target tag does not exist in the
// repository. No output is produced in that case.
var ErrReferenceNotFound = errors.New("reference not found")

// Entry describes one commit in the release range.
type Entry struct {
	Hash      string
	ShortHash string
	Subject   string
	Author    string
	When      time.Time
}

// Generator renders release notes from commit history.
type Generator struct {
	repo          *git.Repository
	ufoDirs       []string
	includeGlyphs bool
	maxGlyphs     int
	logger        *slog.Logger
}

// New constructs a generator over the given repository.
func New(repo *gitrepo.Repository, cfg config.Changelog, logger *slog.Logger) *Generator {
	return &Generator{
		repo:          repo.Underlying(),
		ufoDirs:       cfg.UFODirs,
		includeGlyphs: cfg.IncludeGlyphs,
		maxGlyphs:     cfg.MaxGlyphs,
		logger:        logging.NewComponentLogger(logger, "changelog"),
	}
}

type tagInfo struct {
	name    string
	commit  *object.Commit
	created time.Time
}

// resolveTag resolves a tag name to its commit, handling both annotated and
// lightweight tags. The creation time is the tagger timestamp when available,
// otherwise the commit's committer timestamp.
func (g *Generator) resolveTag(name string) (*tagInfo, error) {
	ref, err := g.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, services.Wrap(services.ErrNotFound, "changelog", "resolve tag", name, ErrReferenceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve tag %s: %w", name, err)
	}

	info := &tagInfo{name: name}
	if tagObj, err := g.repo.TagObject(ref.Hash()); err == nil {
		commit, err := tagObj.Commit()
		if err != nil {
			return nil, fmt.Errorf("resolve tag %s target: %w", name, err)
		}
		info.commit = commit
		info.created = tagObj.Tagger.When
		return info, nil
	}

	commit, err := g.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("resolve tag %s target: %w", name, err)
	}
	info.commit = commit
	info.created = commit.Committer.When
	return info, nil
}

// previousTag finds the newest tag created before target, or nil when target
// is the first tag in the repository.
func (g *Generator) previousTag(target *tagInfo) (*tagInfo, error) {
	iter, err := g.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}

	var prev *tagInfo
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if name == target.name {
			return nil
		}
		candidate, err := g.resolveTag(name)
		if err != nil {
			return err
		}
		if candidate.created.After(target.created) {
			return nil
		}
		if candidate.created.Equal(target.created) && candidate.name >= target.name {
			return nil
		}
		if prev == nil || candidate.created.After(prev.created) ||
			(candidate.created.Equal(prev.created) && candidate.name > prev.name) {
			prev = candidate
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prev, nil
}

// Entries lists the commits between the previous tag (exclusive) and target
// (inclusive), newest first. For the first tag ever created the range covers
// the whole history.
func (g *Generator) Entries(ctx context.Context, target string) ([]Entry, error) {
	entries, _, _, err := g.entriesWithTags(ctx, target)
	return entries, err
}

func (g *Generator) entriesWithTags(ctx context.Context, target string) ([]Entry, *tagInfo, *tagInfo, error) {
	targetInfo, err := g.resolveTag(target)
	if err != nil {
		return nil, nil, nil, err
	}
	prevInfo, err := g.previousTag(targetInfo)
	if err != nil {
		return nil, nil, nil, err
	}

	excluded := map[plumbing.Hash]struct{}{}
	if prevInfo != nil {
		if err := forEachAncestor(prevInfo.commit, func(c *object.Commit) error {
			excluded[c.Hash] = struct{}{}
			return nil
		}); err != nil {
			return nil, nil, nil, fmt.Errorf("walk previous tag history: %w", err)
		}
	}

	seen := map[plumbing.Hash]struct{}{}
	var entries []Entry
	err = forEachAncestor(targetInfo.commit, func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, ok := excluded[c.Hash]; ok {
			return nil
		}
		if _, ok := seen[c.Hash]; ok {
			return nil
		}
		seen[c.Hash] = struct{}{}
		entries = append(entries, Entry{
			Hash:      c.Hash.String(),
			ShortHash: c.Hash.String()[:7],
			Subject:   subjectLine(c.Message),
			Author:    c.Author.Name,
			When:      c.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("walk target history: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].When.After(entries[j].When)
	})
	return entries, targetInfo, prevInfo, nil
}

// Render produces the Markdown release notes for the target tag.
func (g *Generator) Render(ctx context.Context, target string) (string, error) {
	entries, targetInfo, prevInfo, err := g.entriesWithTags(ctx, target)
	if err != nil {
		return "", err
	}

	prevName := ""
	if prevInfo != nil {
		prevName = prevInfo.name
	}
	text := renderEntries(targetInfo.name, prevName, targetInfo.commit.Committer.When, entries)

	if g.includeGlyphs && prevInfo != nil {
		diffs, err := g.glyphDiffs(prevInfo, targetInfo)
		if err != nil {
			return "", err
		}
		text += renderGlyphDiffs(diffs, g.maxGlyphs)
	}

	g.logger.Info("changelog rendered",
		logging.String("tag", targetInfo.name),
		logging.String("previous", prevName),
		logging.Int("commits", len(entries)))
	return text, nil
}

func forEachAncestor(start *object.Commit, fn func(*object.Commit) error) error {
	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()
	err := iter.ForEach(fn)
	if errors.Is(err, storer.ErrStop) {
		return nil
	}
	return err
}
