package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ReadEntries lists dir without filtering or sorting. Entries whose metadata
// cannot be read are still returned with StatErr set; only a failure to open
// the directory itself is reported as an error.
func ReadEntries(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil && len(dirEntries) == 0 {
		return nil, fmt.Errorf("cannot read directory %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		rawName := de.Name()
		fullPath := filepath.Join(dir, rawName)

		hidden, system, protected := entryFlags(fullPath, rawName)
		if protected {
			continue
		}

		name := norm.NFC.String(rawName)
		entry := Entry{
			Name:      name,
			FullPath:  fullPath,
			IsDir:     de.IsDir(),
			IsSymlink: de.Type()&os.ModeSymlink != 0,
			Hidden:    hidden,
			System:    system,
			lowerName: strings.ToLower(name),
		}

		info, statErr := de.Info()
		if statErr != nil {
			entry.StatErr = statErr
			entries = append(entries, entry)
			continue
		}
		entry.Size = info.Size()
		entry.Modified = info.ModTime()
		entry.Mode = info.Mode()

		// Symlinks to directories navigate like directories.
		if entry.IsSymlink {
			if target, err := os.Stat(fullPath); err == nil {
				entry.IsDir = target.IsDir()
			}
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

// List reads dir and applies opts.
func List(dir string, opts ListOptions) ([]Entry, error) {
	entries, err := ReadEntries(dir)
	if err != nil {
		return nil, err
	}
	return Arrange(entries, opts), nil
}
