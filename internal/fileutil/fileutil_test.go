package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"glyphpress/internal/fileutil"
)

func TestWriteFileIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "font.ttf")

	changed, err := fileutil.WriteFileIfChanged(path, []byte("v1"), 0o644)
	if err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if !changed {
		t.Fatal("expected first write to report a change")
	}

	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	changed, err = fileutil.WriteFileIfChanged(path, []byte("v1"), 0o644)
	if err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if changed {
		t.Fatal("expected identical content to be skipped")
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Fatal("expected unchanged file to keep its timestamp")
	}

	changed, err = fileutil.WriteFileIfChanged(path, []byte("v2"), 0o644)
	if err != nil {
		t.Fatalf("third write failed: %v", err)
	}
	if !changed {
		t.Fatal("expected modified content to be written")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "v2" {
		t.Fatalf("unexpected content after rewrite: %q", data)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile returned error: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected copy content: %q", data)
	}
}

func TestFilesExist(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.ttf")
	if err := os.WriteFile(present, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	missing := fileutil.FilesExist([]string{present, filepath.Join(dir, "absent.ttf")})
	if len(missing) != 1 || filepath.Base(missing[0]) != "absent.ttf" {
		t.Fatalf("unexpected missing list: %v", missing)
	}
}
