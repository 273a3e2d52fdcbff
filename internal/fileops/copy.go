package fileops

import (
	"context"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
)

// ErrIntoItself is returned when a directory would be copied or moved into
// its own subtree.
var ErrIntoItself = errors.New("cannot paste a directory into itself")

const tempPrefix = ".runa-tmp-"

// CopyFile copies a regular file or symlink to dst, which must not exist.
// A partially written dst is removed.
func CopyFile(src, dst string) (err error) {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dst)
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// CopyDir copies the tree at src to dst. The copy is assembled in a hidden
// sibling of dst and renamed into place once complete; on failure the
// partial tree is removed and dst is left untouched.
func CopyDir(ctx context.Context, src, dst string) error {
	if Within(src, dst) {
		return ErrIntoItself
	}
	tmp, err := os.MkdirTemp(filepath.Dir(dst), tempPrefix+filepath.Base(dst)+"-")
	if err != nil {
		return err
	}

	if err := copyTree(ctx, src, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}
	if info, err := os.Stat(src); err == nil {
		_ = os.Chmod(tmp, info.Mode().Perm())
	}
	if exists(dst) {
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("%s: %w", dst, iofs.ErrExist)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.RemoveAll(tmp)
		return err
	}
	return nil
}

func copyTree(ctx context.Context, src, dst string) error {
	return filepath.WalkDir(src, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			return os.Mkdir(target, info.Mode().Perm()|0o700)
		}
		return CopyFile(path, target)
	})
}
