package fs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// FileType classifies an entry for the info overlay.
type FileType int

const (
	TypeFile FileType = iota
	TypeDirectory
	TypeSymlink
	TypeOther
)

func (t FileType) String() string {
	switch t {
	case TypeFile:
		return "File"
	case TypeDirectory:
		return "Directory"
	case TypeSymlink:
		return "Symlink"
	default:
		return "Other"
	}
}

// Info describes a single path without following symlinks.
type Info struct {
	Name       string
	Path       string
	Type       FileType
	Size       int64
	HasSize    bool
	Modified   time.Time
	Attributes string
	// Target is the resolved symlink destination, if any.
	Target string
}

// Stat collects Info for path.
func Stat(path string) (Info, error) {
	st, err := os.Lstat(path)
	if err != nil {
		return Info{}, err
	}

	info := Info{
		Name:       filepath.Base(path),
		Path:       path,
		Modified:   st.ModTime(),
		Attributes: FormatAttributes(st.Mode()),
	}

	mode := st.Mode()
	switch {
	case mode.IsRegular():
		info.Type = TypeFile
		info.Size = st.Size()
		info.HasSize = true
	case mode.IsDir():
		info.Type = TypeDirectory
	case mode&os.ModeSymlink != 0:
		info.Type = TypeSymlink
		if target, err := os.Readlink(path); err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(path), target)
			}
			info.Target = target
		}
	default:
		info.Type = TypeOther
	}
	return info, nil
}

// FormatAttributes renders mode as a ten character permission string such as
// "drwxr-xr-x".
func FormatAttributes(mode os.FileMode) string {
	out := []byte("----------")
	switch {
	case mode.IsDir():
		out[0] = 'd'
	case mode&os.ModeSymlink != 0:
		out[0] = 'l'
	}
	const rwx = "rwx"
	perm := mode.Perm()
	for i := 0; i < 9; i++ {
		if perm&(1<<uint(8-i)) != 0 {
			out[1+i] = rwx[i%3]
		}
	}
	return string(out)
}

// FormatSize renders a size with decimal units, or "-" when unknown.
func FormatSize(size int64, known bool) string {
	if !known || size < 0 {
		return "-"
	}
	return humanize.Bytes(uint64(size))
}

// FormatTime renders a modification time in local time, or "-" when unknown.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
