// Package loader serves directory listing requests for the navigation worker.
package loader

import (
	"context"
	"fmt"
	"path/filepath"

	fsutil "github.com/kk-code-lab/runa/internal/fs"
	"github.com/kk-code-lab/runa/internal/protocol"
)

// ReadFunc reads a directory without filtering. It is replaced in tests.
type ReadFunc func(dir string) ([]fsutil.Entry, error)

// Directory answers list requests for every context that shows a listing.
type Directory struct {
	read ReadFunc
}

// NewDirectory returns a loader backed by the real filesystem.
func NewDirectory() *Directory {
	return &Directory{read: fsutil.ReadEntries}
}

// Load lists path synchronously. It is also used inline when the worker
// cannot accept a request.
func (d *Directory) Load(p protocol.ListPayload) (protocol.ListResult, error) {
	dir := filepath.Clean(p.Path)
	all, err := d.read(dir)
	if err != nil {
		return protocol.ListResult{Path: dir}, protocol.NewIoError("list", dir, err)
	}
	present := make([]string, len(all))
	for i, e := range all {
		present[i] = e.FullPath
	}
	return protocol.ListResult{
		Path:    dir,
		Entries: fsutil.Arrange(all, p.Options),
		Focus:   p.Focus,
		Present: present,
	}, nil
}

// Handle implements the worker handler signature.
func (d *Directory) Handle(ctx context.Context, req protocol.Request) (protocol.Result, error) {
	p, ok := req.Payload.(protocol.ListPayload)
	if !ok {
		return nil, fmt.Errorf("list worker: unexpected payload %T", req.Payload)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := d.Load(p)
	return result, err
}
