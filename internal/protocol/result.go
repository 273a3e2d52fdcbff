package protocol

import fsutil "github.com/kk-code-lab/runa/internal/fs"

// Result is the kind-specific body of a response.
type Result interface {
	Kind() Kind
}

// ListResult is a filtered, sorted directory listing.
type ListResult struct {
	Path    string
	Entries []fsutil.Entry
	Focus   string
	// Present holds the full path of every entry read from disk, including
	// entries the visibility rules left out of Entries. Nil means Entries
	// is the whole directory.
	Present []string
}

func (ListResult) Kind() Kind { return KindList }

// PreviewResult holds preview lines, each exactly Width columns wide.
type PreviewResult struct {
	Path       string
	Lines      []string
	Generation uint64
	// Fallback is set when the external formatter was requested but the
	// internal renderer produced the lines.
	Fallback bool
}

func (PreviewResult) Kind() Kind { return KindPreview }

// FindMatch is a single scored search hit.
type FindMatch struct {
	Path  string
	Rel   string
	IsDir bool
	Score int
}

// FindResult holds search hits sorted by score, best first.
type FindResult struct {
	Root    string
	Query   string
	Matches []FindMatch
}

func (FindResult) Kind() Kind { return KindFind }

// OpKind names a file operation.
type OpKind string

const (
	OpDelete OpKind = "delete"
	OpRename OpKind = "rename"
	OpCreate OpKind = "create"
	OpCopy   OpKind = "copy"
	OpMove   OpKind = "move"
)

// FileOpResult reports which paths an operation touched.
type FileOpResult struct {
	Op OpKind
	// Affected lists the paths that were successfully changed, in order.
	Affected []string
	// Failed is the path the operation stopped at, if any.
	Failed     string
	Focus      string
	NeedReload bool
	Message    string
}

func (FileOpResult) Kind() Kind { return KindFileOp }
