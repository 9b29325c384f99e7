package fetch

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"glyphpress/internal/fileutil"
)

// unpackZip extracts the archive into destRoot, writing only entries whose
// content differs from what is already on disk. Returns the number of files
// written and the total number of file entries.
func unpackZip(archivePath, destRoot string) (written, total int, err error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return 0, 0, fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		total++

		target, err := secureJoin(destRoot, entry.Name)
		if err != nil {
			return written, total, err
		}

		rc, err := entry.Open()
		if err != nil {
			return written, total, fmt.Errorf("open entry %s: %w", entry.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return written, total, fmt.Errorf("read entry %s: %w", entry.Name, err)
		}

		changed, err := fileutil.WriteFileIfChanged(target, data, 0o644)
		if err != nil {
			return written, total, err
		}
		if changed {
			written++
		}
	}
	return written, total, nil
}

// secureJoin rejects archive entries that would escape the destination root.
func secureJoin(root, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return filepath.Join(root, cleaned), nil
}
