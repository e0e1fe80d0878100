package tms

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// unzipFlat extracts every file of the archive directly into target,
// dropping directory components so entry names cannot traverse outside the
// catalog directory. Hidden entries (resource forks, .DS_Store and friends)
// are skipped.
func unzipFlat(archive, target string) ([]string, error) {
	reader, err := zip.OpenReader(archive)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer reader.Close()

	var extracted []string
	for _, file := range reader.File {
		if file.FileInfo().IsDir() {
			continue
		}

		name := file.Name
		if i := strings.LastIndexAny(name, `/\`); i >= 0 {
			name = name[i+1:]
		}
		if name == "" || name == "." || name == ".." || strings.HasPrefix(name, ".") {
			continue
		}

		path := filepath.Join(target, name)
		if err := extractFile(file, path); err != nil {
			return extracted, err
		}
		extracted = append(extracted, path)
	}
	return extracted, nil
}

func extractFile(file *zip.File, path string) error {
	src, err := file.Open()
	if err != nil {
		return fmt.Errorf("read archive entry %s: %w", file.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("extract %s: %w", file.Name, err)
	}
	return nil
}
