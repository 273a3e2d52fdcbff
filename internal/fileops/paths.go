// Package fileops performs the mutating filesystem operations: create,
// delete, rename, copy and move.
package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnusedPath returns path if nothing exists there, otherwise the first of
// stem_1.ext, stem_2.ext, ... that is free. Numbering always starts at 1, so
// gaps left by deleted copies are reused.
func UnusedPath(path string) string {
	if !exists(path) {
		return path
	}
	dir, name := filepath.Split(path)
	stem, ext := splitExt(name)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}

// splitExt splits name at its last dot. A leading dot starts the stem, so
// ".bashrc" has no extension.
func splitExt(name string) (string, string) {
	ext := filepath.Ext(name)
	if ext == name || ext == "." {
		return name, ""
	}
	return strings.TrimSuffix(name, ext), ext
}

// Within reports whether path is root or inside it.
func Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
