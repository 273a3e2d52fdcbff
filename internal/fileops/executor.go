package fileops

import (
	"context"
	"fmt"
	"io"
	iofs "io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/runa/internal/protocol"
)

// Executor runs file operations one at a time.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor returns an executor logging to logger.
func NewExecutor(logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{logger: logger}
}

// Run executes the operation described by p. The result always lists the
// paths that were changed before any failure; a failure stops the remaining
// paths and is returned as an *protocol.IoError.
func (x *Executor) Run(ctx context.Context, p protocol.Payload) (protocol.FileOpResult, error) {
	var (
		res protocol.FileOpResult
		err error
	)
	switch v := p.(type) {
	case protocol.DeletePayload:
		res, err = x.Delete(ctx, v.Paths)
	case protocol.RenamePayload:
		res, err = x.Rename(v.From, v.To)
	case protocol.CreatePayload:
		res, err = x.Create(v.Path, v.Dir)
	case protocol.PastePayload:
		res, err = x.Paste(ctx, v)
	default:
		return protocol.FileOpResult{}, fmt.Errorf("fileop worker: unexpected payload %T", p)
	}
	res.NeedReload = true
	if err != nil {
		x.logger.Warn("file operation failed", "op", string(res.Op), "done", len(res.Affected), "failed", res.Failed, "error", err)
	}
	return res, err
}

// Handle implements the worker handler signature.
func (x *Executor) Handle(ctx context.Context, req protocol.Request) (protocol.Result, error) {
	res, err := x.Run(ctx, req.Payload)
	return res, err
}

// Delete removes each path recursively.
func (x *Executor) Delete(ctx context.Context, paths []string) (protocol.FileOpResult, error) {
	res := protocol.FileOpResult{Op: protocol.OpDelete}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return fail(res, path, "delete", err)
		}
		if _, err := os.Lstat(path); err != nil {
			return fail(res, path, "delete", err)
		}
		if err := os.RemoveAll(path); err != nil {
			return fail(res, path, "delete", err)
		}
		res.Affected = append(res.Affected, path)
	}
	res.Message = deletedMessage(len(res.Affected))
	return res, nil
}

// Rename moves from to to. An existing target is never replaced.
func (x *Executor) Rename(from, to string) (protocol.FileOpResult, error) {
	res := protocol.FileOpResult{Op: protocol.OpRename}
	if from == to {
		res.Focus = filepath.Base(to)
		res.Message = "Renamed"
		return res, nil
	}
	if exists(to) {
		return fail(res, to, "rename", fmt.Errorf("%q already exists: %w", filepath.Base(to), iofs.ErrExist))
	}
	if err := os.Rename(from, to); err != nil {
		return fail(res, from, "rename", err)
	}
	res.Affected = []string{to}
	res.Focus = filepath.Base(to)
	res.Message = "Renamed"
	return res, nil
}

// Create makes an empty file or directory at path, or at the first unused
// numbered variant when path is taken.
func (x *Executor) Create(path string, dir bool) (protocol.FileOpResult, error) {
	res := protocol.FileOpResult{Op: protocol.OpCreate}
	target := UnusedPath(path)
	var err error
	if dir {
		err = os.Mkdir(target, 0o755)
	} else {
		var f *os.File
		f, err = os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			err = f.Close()
		}
	}
	if err != nil {
		return fail(res, target, "create", err)
	}
	res.Affected = []string{target}
	res.Focus = filepath.Base(target)
	res.Message = "Created"
	return res, nil
}

// Paste copies or moves every source into p.Dest. Name collisions get the
// first unused numbered variant. The focus follows the entry named p.Focus.
func (x *Executor) Paste(ctx context.Context, p protocol.PastePayload) (protocol.FileOpResult, error) {
	res := protocol.FileOpResult{Op: protocol.OpCopy, Focus: p.Focus}
	if p.Cut {
		res.Op = protocol.OpMove
	}
	for _, src := range p.Sources {
		if err := ctx.Err(); err != nil {
			return fail(res, src, string(res.Op), err)
		}
		name := filepath.Base(src)
		target := UnusedPath(filepath.Join(p.Dest, name))
		if name == p.Focus {
			res.Focus = filepath.Base(target)
		}

		var err error
		if p.Cut {
			err = move(ctx, src, target)
		} else {
			err = copyPath(ctx, src, target)
		}
		if err != nil {
			return fail(res, src, string(res.Op), err)
		}
		res.Affected = append(res.Affected, target)
	}
	res.Message = "Pasted"
	return res, nil
}

func copyPath(ctx context.Context, src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return CopyDir(ctx, src, dst)
	}
	return CopyFile(src, dst)
}

func move(ctx context.Context, src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() && Within(src, dst) {
		return ErrIntoItself
	}
	err = os.Rename(src, dst)
	if err == nil || !crossDevice(err) {
		return err
	}
	if err := copyPath(ctx, src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func fail(res protocol.FileOpResult, path, op string, err error) (protocol.FileOpResult, error) {
	res.Failed = path
	res.Message = fmt.Sprintf("%s failed: %v", op, err)
	return res, protocol.NewIoError(op, path, err)
}

func deletedMessage(n int) string {
	if n == 1 {
		return "Item deleted"
	}
	return fmt.Sprintf("%d items deleted", n)
}
