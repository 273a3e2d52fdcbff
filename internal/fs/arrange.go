package fs

import (
	"sort"
	"strings"
)

// ListOptions controls which entries are visible and how they are ordered.
type ListOptions struct {
	DirsFirst       bool
	ShowHidden      bool
	ShowSystem      bool
	CaseInsensitive bool
	// AlwaysShow names are visible regardless of hidden/system flags.
	AlwaysShow []string
}

// Clone returns a copy that shares no slices with o.
func (o ListOptions) Clone() ListOptions {
	out := o
	if o.AlwaysShow != nil {
		out.AlwaysShow = append([]string(nil), o.AlwaysShow...)
	}
	return out
}

func (o ListOptions) alwaysShown(e Entry) bool {
	for _, name := range o.AlwaysShow {
		if o.CaseInsensitive {
			if strings.EqualFold(name, e.Name) {
				return true
			}
		} else if name == e.Name {
			return true
		}
	}
	return false
}

// Visible reports whether e passes the hidden/system rules.
func (o ListOptions) Visible(e Entry) bool {
	if o.alwaysShown(e) {
		return true
	}
	if !o.ShowHidden && e.Hidden {
		return false
	}
	if !o.ShowSystem && e.System {
		return false
	}
	return true
}

// Arrange returns the visible entries in display order. The input slice is
// not modified.
func Arrange(entries []Entry, opts ListOptions) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if opts.Visible(e) {
			out = append(out, e)
		}
	}
	Sort(out, opts)
	return out
}

// Sort orders entries by name, optionally grouping directories first.
func Sort(entries []Entry, opts ListOptions) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if opts.DirsFirst && a.IsDir != b.IsDir {
			return a.IsDir
		}
		if opts.CaseInsensitive {
			al, bl := a.LowerName(), b.LowerName()
			if al != bl {
				return al < bl
			}
		}
		return a.Name < b.Name
	})
}
