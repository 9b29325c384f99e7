package gitrepo_test

import (
	"context"
	"testing"
	"time"

	"glyphpress/internal/gitrepo"
	"glyphpress/internal/testsupport"
)

func TestOpenFailsOutsideRepository(t *testing.T) {
	if _, err := gitrepo.Open(t.TempDir()); err == nil {
		t.Fatal("expected error opening a non-repository directory")
	}
}

func TestUpdatedReflectsWorkingTree(t *testing.T) {
	dir := t.TempDir()
	repo := testsupport.InitRepo(t, dir)
	testsupport.WriteFile(t, dir, "LICENSE", "v1")
	testsupport.Commit(t, repo, "Initial commit", time.Now())

	wrapped, err := gitrepo.Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}

	updated, err := wrapped.Updated(context.Background())
	if err != nil {
		t.Fatalf("Updated returned error: %v", err)
	}
	if updated {
		t.Fatal("expected clean tree to report no update")
	}

	testsupport.WriteFile(t, dir, "fonts/BabelStoneHanBasic.ttf", "binary-v2")
	updated, err = wrapped.Updated(context.Background())
	if err != nil {
		t.Fatalf("Updated returned error: %v", err)
	}
	if !updated {
		t.Fatal("expected new file to report an update")
	}
}

func TestLatestTag(t *testing.T) {
	dir := t.TempDir()
	repo := testsupport.InitRepo(t, dir)
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	wrapped, err := gitrepo.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok, err := wrapped.LatestTag(); err != nil || ok {
		t.Fatalf("expected no tags, got ok=%v err=%v", ok, err)
	}

	testsupport.WriteFile(t, dir, "LICENSE", "v1")
	c1 := testsupport.Commit(t, repo, "Initial commit", base)
	testsupport.AnnotatedTag(t, repo, "20240301-beta", c1, base)

	testsupport.WriteFile(t, dir, "LICENSE", "v2")
	c2 := testsupport.Commit(t, repo, "Update", base.Add(24*time.Hour))
	testsupport.AnnotatedTag(t, repo, "20240302-beta", c2, base.Add(24*time.Hour))

	name, ok, err := wrapped.LatestTag()
	if err != nil {
		t.Fatalf("LatestTag returned error: %v", err)
	}
	if !ok || name != "20240302-beta" {
		t.Fatalf("expected newest tag 20240302-beta, got %q ok=%v", name, ok)
	}
}

func TestTagExists(t *testing.T) {
	dir := t.TempDir()
	repo := testsupport.InitRepo(t, dir)
	testsupport.WriteFile(t, dir, "LICENSE", "v1")
	hash := testsupport.Commit(t, repo, "Initial commit", time.Now())
	testsupport.AnnotatedTag(t, repo, "20240305-beta", hash, time.Now())

	wrapped, err := gitrepo.Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	exists, err := wrapped.TagExists("20240305-beta")
	if err != nil || !exists {
		t.Fatalf("expected tag to exist, got exists=%v err=%v", exists, err)
	}
	exists, err = wrapped.TagExists("20990101-beta")
	if err != nil || exists {
		t.Fatalf("expected tag to be absent, got exists=%v err=%v", exists, err)
	}
}
