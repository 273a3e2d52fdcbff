package state

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/kk-code-lab/runa/internal/protocol"
)

// Visible returns the entries that pass the name filter.
func (s *AppState) Visible() []FileEntry {
	if s.Nav.visible == nil && len(s.Nav.Entries) > 0 {
		s.refilter()
	}
	return s.Nav.visible
}

// Selected returns the entry under the cursor.
func (s *AppState) Selected() (FileEntry, bool) {
	visible := s.Visible()
	if s.Nav.Cursor < 0 || s.Nav.Cursor >= len(visible) {
		return FileEntry{}, false
	}
	return visible[s.Nav.Cursor], true
}

// IsMarked reports whether path carries a marker.
func (s *AppState) IsMarked(path string) bool {
	_, ok := s.Nav.Markers[path]
	return ok
}

// InClipboard reports whether path is waiting to be pasted.
func (s *AppState) InClipboard(path string) bool {
	_, ok := s.Nav.Clipboard[path]
	return ok
}

// Targets returns the paths an operation applies to: every marked path, or
// the selected entry when nothing is marked. Paths are sorted.
func (s *AppState) Targets() []string {
	if len(s.Nav.Markers) > 0 {
		return sortedKeys(s.Nav.Markers)
	}
	if sel, ok := s.Selected(); ok {
		return []string{sel.FullPath}
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// refilter rebuilds the visible slice from Entries and Filter. Matching is a
// case-insensitive substring test on the name.
func (s *AppState) refilter() {
	if s.Nav.Filter == "" {
		s.Nav.visible = s.Nav.Entries
		if s.Nav.visible == nil {
			s.Nav.visible = []FileEntry{}
		}
		return
	}
	query := strings.ToLower(s.Nav.Filter)
	out := make([]FileEntry, 0, len(s.Nav.Entries))
	for _, e := range s.Nav.Entries {
		if strings.Contains(e.LowerName(), query) {
			out = append(out, e)
		}
	}
	s.Nav.visible = out
}

func (s *AppState) indexOfPath(path string) int {
	for i, e := range s.Visible() {
		if e.FullPath == path {
			return i
		}
	}
	return -1
}

func (s *AppState) indexOfName(name string) int {
	for i, e := range s.Visible() {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func (s *AppState) clampCursor() {
	n := len(s.Visible())
	switch {
	case n == 0:
		s.Nav.Cursor = 0
	case s.Nav.Cursor >= n:
		s.Nav.Cursor = n - 1
	case s.Nav.Cursor < 0:
		s.Nav.Cursor = 0
	}
}

// ensureCursorVisible keeps the cursor inside the viewport with the
// configured padding rows around it.
func (s *AppState) ensureCursorVisible() {
	height := s.Layout().BodyHeight
	n := len(s.Visible())
	if height <= 0 || n == 0 {
		s.Nav.Scroll = 0
		return
	}
	pad := s.Settings.ScrollPadding
	if limit := (height - 1) / 2; pad > limit {
		pad = limit
	}
	if s.Nav.Cursor-pad < s.Nav.Scroll {
		s.Nav.Scroll = s.Nav.Cursor - pad
	}
	if s.Nav.Cursor+pad >= s.Nav.Scroll+height {
		s.Nav.Scroll = s.Nav.Cursor + pad - height + 1
	}
	if maxScroll := n - height; s.Nav.Scroll > maxScroll {
		s.Nav.Scroll = maxScroll
	}
	if s.Nav.Scroll < 0 {
		s.Nav.Scroll = 0
	}
}

// moveCursor moves by delta with wrap-around at both ends.
func (s *AppState) moveCursor(delta int) bool {
	n := len(s.Visible())
	if n == 0 {
		return false
	}
	next := ((s.Nav.Cursor+delta)%n + n) % n
	if next == s.Nav.Cursor {
		return false
	}
	s.Nav.Cursor = next
	s.ensureCursorVisible()
	return true
}

// toggleMarker flips the marker on the selection and advances the cursor.
// A path sitting in the clipboard moves from the clipboard to the markers.
func (s *AppState) toggleMarker(jump bool) bool {
	sel, ok := s.Selected()
	if !ok {
		return false
	}
	path := sel.FullPath
	switch {
	case s.InClipboard(path):
		delete(s.Nav.Clipboard, path)
		s.Nav.Markers[path] = struct{}{}
	case s.IsMarked(path):
		delete(s.Nav.Markers, path)
	default:
		s.Nav.Markers[path] = struct{}{}
	}

	n := len(s.Visible())
	if s.Nav.Cursor == n-1 {
		if jump && n > 1 {
			s.Nav.Cursor = 0
		}
	} else {
		s.Nav.Cursor++
	}
	s.ensureCursorVisible()
	return true
}

// reconcileMarkers drops markers directly under the listed directory whose
// paths no longer exist there. Entries left out by the visibility rules
// still exist. Markers elsewhere are left alone.
func (s *AppState) reconcileMarkers(res protocol.ListResult) {
	if len(s.Nav.Markers) == 0 {
		return
	}
	dir := res.Path
	present := make(map[string]struct{}, len(res.Entries)+len(res.Present))
	for _, e := range res.Entries {
		present[e.FullPath] = struct{}{}
	}
	for _, p := range res.Present {
		present[p] = struct{}{}
	}
	for path := range s.Nav.Markers {
		if filepath.Dir(path) != dir {
			continue
		}
		if _, ok := present[path]; !ok {
			delete(s.Nav.Markers, path)
		}
	}
}

// rememberPosition stores the selection and filter of the current
// directory for the next visit.
func (s *AppState) rememberPosition() {
	dir := s.Nav.CurrentDir
	if dir == "" {
		return
	}
	if sel, ok := s.Selected(); ok {
		s.Nav.positions[dir] = sel.Name
	}
	if s.Nav.Filter != "" {
		s.Nav.filters[dir] = s.Nav.Filter
	} else {
		delete(s.Nav.filters, dir)
	}
}

// applyListing installs an accepted main-pane listing. The cursor follows,
// in order: the focus hint, the previously selected path, the saved
// position for the directory, the old index clamped.
func (s *AppState) applyListing(res protocol.ListResult) {
	prevDir := s.Nav.CurrentDir
	prev, hadPrev := s.Selected()
	sameDir := res.Path == prevDir

	if !sameDir {
		s.Nav.Filter = s.Nav.filters[res.Path]
		s.Nav.Scroll = 0
	}
	s.Nav.CurrentDir = res.Path
	s.Nav.Entries = res.Entries
	s.Nav.Loading = false
	s.Nav.Err = nil
	s.refilter()
	s.reconcileMarkers(res)

	idx := -1
	if res.Focus != "" {
		idx = s.indexOfName(res.Focus)
	}
	if idx < 0 && sameDir && hadPrev {
		idx = s.indexOfPath(prev.FullPath)
	}
	if idx < 0 {
		if name, ok := s.Nav.positions[res.Path]; ok {
			idx = s.indexOfName(name)
		}
	}
	if idx >= 0 {
		s.Nav.Cursor = idx
	} else if !sameDir {
		s.Nav.Cursor = 0
	}
	s.clampCursor()
	s.ensureCursorVisible()
}

// setFilter replaces the name filter and keeps the selection when it still
// matches.
func (s *AppState) setFilter(filter string) {
	prev, hadPrev := s.Selected()
	s.Nav.Filter = filter
	s.refilter()
	idx := -1
	if hadPrev {
		idx = s.indexOfPath(prev.FullPath)
	}
	if idx >= 0 {
		s.Nav.Cursor = idx
	} else {
		s.Nav.Cursor = 0
	}
	s.clampCursor()
	s.ensureCursorVisible()
}

func (s *AppState) applyParentListing(res protocol.ListResult, highlight string) {
	s.Parent.Dir = res.Path
	s.Parent.Entries = res.Entries
	s.Parent.Highlight = highlight
	s.Parent.Err = nil
}
