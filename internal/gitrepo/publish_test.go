package gitrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"

	"glyphpress/internal/config"
	"glyphpress/internal/gitrepo"
	"glyphpress/internal/services"
	"glyphpress/internal/testsupport"
)

func TestTagName(t *testing.T) {
	when := time.Date(2024, time.March, 5, 23, 59, 0, 0, time.UTC)
	if got := gitrepo.TagName(when, "-beta"); got != "20240305-beta" {
		t.Fatalf("unexpected tag name: %q", got)
	}
	// Local times must be converted to UTC before formatting.
	offset := time.FixedZone("UTC+10", 10*3600)
	late := time.Date(2024, time.March, 6, 8, 0, 0, 0, offset)
	if got := gitrepo.TagName(late, "-beta"); got != "20240305-beta" {
		t.Fatalf("expected UTC date, got %q", got)
	}
}

func newPublisherFixture(t *testing.T) (string, *gitrepo.Repository, *gitrepo.Publisher) {
	t.Helper()
	dir := t.TempDir()
	repo := testsupport.InitRepo(t, dir)
	testsupport.WriteFile(t, dir, "LICENSE", "v1")
	testsupport.Commit(t, repo, "Initial commit", time.Now().Add(-time.Hour))

	remote := testsupport.InitBareRemote(t)
	testsupport.AddRemote(t, repo, "origin", remote)

	wrapped, err := gitrepo.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	gitCfg := config.Default().Git
	publisher := gitrepo.NewPublisher(wrapped, gitCfg, "", nil)
	return dir, wrapped, publisher
}

func TestPublishCommitsTagsAndPushes(t *testing.T) {
	dir, wrapped, publisher := newPublisherFixture(t)
	testsupport.WriteFile(t, dir, "fonts/BabelStoneHanBasic.ttf", "ttf-v2")

	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	tag, err := publisher.Publish(context.Background(), now)
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if tag != "20240305-beta" {
		t.Fatalf("unexpected tag: %q", tag)
	}

	exists, err := wrapped.TagExists(tag)
	if err != nil || !exists {
		t.Fatalf("expected tag to be created, exists=%v err=%v", exists, err)
	}

	updated, err := wrapped.Updated(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if updated {
		t.Fatal("expected working tree to be clean after publish")
	}

	// The commit message is fixed.
	head, err := wrapped.Head()
	if err != nil {
		t.Fatal(err)
	}
	commit, err := wrapped.Underlying().CommitObject(head)
	if err != nil {
		t.Fatal(err)
	}
	if commit.Message != "Update" {
		t.Fatalf("unexpected commit message: %q", commit.Message)
	}
	if commit.Author.Name != "github-actions[bot]" {
		t.Fatalf("unexpected author: %q", commit.Author.Name)
	}
}

func TestPublishRefusesTagCollision(t *testing.T) {
	dir, _, publisher := newPublisherFixture(t)
	testsupport.WriteFile(t, dir, "fonts/BabelStoneHanBasic.ttf", "ttf-v2")

	now := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	if _, err := publisher.Publish(context.Background(), now); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	testsupport.WriteFile(t, dir, "fonts/BabelStoneHanBasic.ttf", "ttf-v3")
	_, err := publisher.Publish(context.Background(), now.Add(2*time.Hour))
	if err == nil {
		t.Fatal("expected second same-day publish to fail")
	}
	if !errors.Is(err, gitrepo.ErrTagExists) {
		t.Fatalf("expected tag collision error, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation classification, got %v", err)
	}
}

func TestPublishAbortsWhenRemoteMoved(t *testing.T) {
	dir, wrapped, publisher := newPublisherFixture(t)
	testsupport.WriteFile(t, dir, "fonts/BabelStoneHanBasic.ttf", "ttf-v2")

	day1 := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)
	if _, err := publisher.Publish(context.Background(), day1); err != nil {
		t.Fatalf("first publish failed: %v", err)
	}

	// Simulate a concurrent run moving the remote: rewind the recorded
	// remote-tracking ref so the lease no longer matches reality.
	stale := plumbing.NewHashReference(
		plumbing.NewRemoteReferenceName("origin", "master"),
		plumbing.NewHash("0123456789012345678901234567890123456789"),
	)
	if err := wrapped.Underlying().Storer.SetReference(stale); err != nil {
		t.Fatal(err)
	}

	testsupport.WriteFile(t, dir, "fonts/BabelStoneHanBasic.ttf", "ttf-v3")
	day2 := time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)
	if _, err := publisher.Publish(context.Background(), day2); err == nil {
		t.Fatal("expected publish to abort when the lease does not match the remote")
	}
}
