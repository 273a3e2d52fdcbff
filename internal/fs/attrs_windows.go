//go:build windows

package fs

import (
	"os"
	"syscall"
)

const (
	fileAttributeHidden       = 0x02
	fileAttributeSystem       = 0x04
	fileAttributeReparsePoint = 0x0400
)

// entryFlags reports the hidden, system and protected flags for an entry.
// Protected entries (system reparse points such as compatibility junctions)
// never appear in listings.
func entryFlags(fullPath, name string) (hidden, system, protected bool) {
	dotted := len(name) > 0 && name[0] == '.'
	attrs, err := getFileAttributes(fullPath, name)
	if err != nil {
		return dotted, false, false
	}
	const protectedMask = fileAttributeSystem | fileAttributeReparsePoint
	return dotted || attrs&fileAttributeHidden != 0,
		attrs&fileAttributeSystem != 0,
		attrs&protectedMask == protectedMask
}

func getFileAttributes(fullPath, name string) (uint32, error) {
	target := fullPath
	if target == "" {
		target = name
	}
	if target == "" {
		return 0, os.ErrInvalid
	}

	ptr, err := syscall.UTF16PtrFromString(target)
	if err != nil {
		return 0, err
	}
	return syscall.GetFileAttributes(ptr)
}
