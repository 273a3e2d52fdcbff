//go:build !windows

package fs

// entryFlags reports the hidden, system and protected flags for an entry.
// Unix has no system attribute; dot-files are hidden.
func entryFlags(_ string, name string) (hidden, system, protected bool) {
	return len(name) > 0 && name[0] == '.', false, false
}
