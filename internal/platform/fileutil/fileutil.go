// Package fileutil holds filesystem helpers shared by the pipeline:
// best-effort scratch cleanup and zip extraction.
package fileutil

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Cleanup retry policy. Deletion failures must never fail the surrounding
// pipeline step, so exhaustion is logged and swallowed.
const (
	removeAttempts  = 5
	removeBaseDelay = 2 * time.Second
)

// RemoveWithRetry deletes path (file or directory) with a bounded number
// of attempts and a linearly increasing delay between them. It never
// returns an error: a path that cannot be deleted is logged and left
// behind.
func RemoveWithRetry(logger *slog.Logger, path string) {
	removeWithRetry(logger, path, removeAttempts, removeBaseDelay)
}

func removeWithRetry(logger *slog.Logger, path string, attempts int, baseDelay time.Duration) {
	for i := 1; i <= attempts; i++ {
		err := os.RemoveAll(path)
		if err == nil {
			logger.Debug("deleted", "path", path)
			return
		}
		if i == attempts {
			logger.Error("failed to delete after retries", "path", path, "attempts", attempts, "error", err)
			return
		}
		logger.Warn("retrying deletion", "path", path, "attempt", i, "error", err)
		time.Sleep(baseDelay * time.Duration(i))
	}
}

// ExtractZip expands the archive at zipPath into destDir, creating it if
// needed. Entry names are validated so an archive cannot write outside
// destDir.
func ExtractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("failed to open zip %s: %w", zipPath, err)
	}
	defer func() { _ = reader.Close() }()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	for _, entry := range reader.File {
		target := filepath.Join(destDir, entry.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry %q escapes destination directory", entry.Name)
		}

		if entry.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractZipEntry(entry, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
		}
	}
	return nil
}

func extractZipEntry(entry *zip.File, target string) error {
	src, err := entry.Open()
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return err
	}
	return dst.Close()
}
