package protocol

import fsutil "github.com/kk-code-lab/runa/internal/fs"

// Payload is the kind-specific body of a request.
type Payload interface {
	Kind() Kind
}

// ListPayload asks the navigation worker for a directory listing.
type ListPayload struct {
	Path    string
	Options fsutil.ListOptions
	// Focus is the entry name to select once the listing is applied.
	Focus string
}

func (ListPayload) Kind() Kind { return KindList }

// PreviewMethod selects how file previews are produced.
type PreviewMethod string

const (
	PreviewInternal PreviewMethod = "internal"
	PreviewExternal PreviewMethod = "bat"
)

// FormatterOptions configure the external preview formatter.
type FormatterOptions struct {
	Command string
	Theme   string
	Style   string
	Wrap    bool
	// Args are appended after the generated flags and before the path.
	Args []string
}

// PreviewPayload asks the preview worker to render a file.
type PreviewPayload struct {
	Path      string
	MaxLines  int
	Width     int
	MaxBytes  int64
	Method    PreviewMethod
	Formatter FormatterOptions
	Options   fsutil.ListOptions
	// Generation is the preview generation the request was issued for.
	Generation uint64
}

func (PreviewPayload) Kind() Kind { return KindPreview }

// FindPayload asks the find worker for a fuzzy recursive search.
type FindPayload struct {
	Root       string
	Query      string
	MaxResults int
	Exclude    []string
}

func (FindPayload) Kind() Kind { return KindFind }

// DeletePayload removes paths recursively.
type DeletePayload struct {
	Paths []string
}

func (DeletePayload) Kind() Kind { return KindFileOp }

// RenamePayload renames From to To. It fails when To exists.
type RenamePayload struct {
	From string
	To   string
}

func (RenamePayload) Kind() Kind { return KindFileOp }

// CreatePayload creates an empty file or a directory. A taken name is
// replaced by the first unused numbered variant.
type CreatePayload struct {
	Path string
	Dir  bool
}

func (CreatePayload) Kind() Kind { return KindFileOp }

// PastePayload copies or moves Sources into Dest.
type PastePayload struct {
	Sources []string
	Dest    string
	Cut     bool
	// Focus is the source name to select after the paste; it follows the
	// entry if the paste had to rename it.
	Focus string
}

func (PastePayload) Kind() Kind { return KindFileOp }

func clonePayload(p Payload) Payload {
	switch v := p.(type) {
	case ListPayload:
		v.Options = v.Options.Clone()
		return v
	case PreviewPayload:
		v.Options = v.Options.Clone()
		v.Formatter.Args = cloneStrings(v.Formatter.Args)
		return v
	case FindPayload:
		v.Exclude = cloneStrings(v.Exclude)
		return v
	case DeletePayload:
		v.Paths = cloneStrings(v.Paths)
		return v
	case PastePayload:
		v.Sources = cloneStrings(v.Sources)
		return v
	default:
		return p
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
