package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Output constants.
const (
	Extension = ".zip"
)

// ZipDir compresses the contents of dir into a single archive placed next to
// it (<dir>.zip) and returns the archive path. Entry names are relative to
// dir so the archive unpacks flat.
func ZipDir(dir string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", dir)
	}

	zipPath := strings.TrimSuffix(dir, string(os.PathSeparator)) + Extension
	out, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)

	walkErr := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		entry, err := w.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(entry, f)
		return err
	})
	if walkErr != nil {
		w.Close()
		os.Remove(zipPath)
		return "", fmt.Errorf("failed to archive directory: %w", walkErr)
	}

	if err := w.Close(); err != nil {
		os.Remove(zipPath)
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	return zipPath, nil
}
