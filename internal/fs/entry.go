package fs

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Entry represents a single file or directory on disk.
type Entry struct {
	Name      string
	FullPath  string
	IsDir     bool
	IsSymlink bool
	Hidden    bool
	System    bool
	Size      int64
	Modified  time.Time
	Mode      os.FileMode

	// StatErr is set when the entry was listed but its metadata could not be
	// read. Size, Modified and Mode are zero in that case.
	StatErr error

	lowerName string
}

// IsHidden reports whether the entry should be treated as hidden.
func (e Entry) IsHidden() bool {
	return e.Hidden
}

// LowerName returns the case-folded name used for sorting and filtering.
func (e Entry) LowerName() string {
	if e.lowerName == "" && e.Name != "" {
		return strings.ToLower(e.Name)
	}
	return e.lowerName
}

// DisplayName appends a trailing separator to directories.
func (e Entry) DisplayName() string {
	if e.IsDir {
		return e.Name + "/"
	}
	return e.Name
}

// NewEntry builds an entry from already known metadata. It is mostly useful in
// tests and for synthesized listings.
func NewEntry(dir, name string, isDir bool) Entry {
	return Entry{
		Name:      name,
		FullPath:  filepath.Join(dir, name),
		IsDir:     isDir,
		Hidden:    len(name) > 0 && name[0] == '.',
		lowerName: strings.ToLower(name),
	}
}
