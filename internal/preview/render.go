// Package preview builds the fixed-width lines shown in the preview pane.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"os"

	fsutil "github.com/kk-code-lab/runa/internal/fs"
	"github.com/kk-code-lab/runa/internal/protocol"
	"github.com/kk-code-lab/runa/internal/textutil"
)

const (
	// MinLines is the smallest number of lines ever requested.
	MinLines = 3
	// MaxFileSize is the largest file that is previewed at all.
	MaxFileSize = 10 << 20
	// DefaultMaxBytes bounds how much of a file is read.
	DefaultMaxBytes = 256 << 10

	binaryPeekBytes = 1024
)

const (
	msgAccessDenied     = "[Error: Access Denied]"
	msgPermissionDenied = "[Error: Permission Denied]"
	msgNotFound         = "[Error: File Not Found]"
	msgTooLarge         = "[File too large for preview]"
	msgNotRegular       = "[Not a regular file]"
	msgBinary           = "[Binary file - preview hidden]"
	msgEmptyFile        = "[Empty file]"
	msgEmptyDir         = "[empty directory]"
	msgMore             = "..."
)

// Render produces preview lines for p using only the filesystem. Every line
// is exactly p.Width columns wide.
func Render(p protocol.PreviewPayload) []string {
	maxLines := max(p.MaxLines, MinLines)
	width := p.Width

	info, err := os.Stat(p.Path)
	if err != nil {
		return single(msgAccessDenied, width)
	}
	if info.IsDir() {
		entries, err := fsutil.List(p.Path, p.Options)
		if err != nil {
			return DirectoryError(err, maxLines, width)
		}
		return DirectoryLines(entries, maxLines, width)
	}
	if info.Size() > MaxFileSize {
		return single(msgTooLarge, width)
	}
	if !info.Mode().IsRegular() {
		return single(msgNotRegular, width)
	}

	f, err := os.Open(p.Path)
	if err != nil {
		return single(openErrorMessage(err), width)
	}
	defer f.Close()

	maxBytes := p.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	head, err := io.ReadAll(io.LimitReader(f, maxBytes))
	if err != nil && len(head) == 0 {
		return single(fmt.Sprintf("[Error reading file: %v]", err), width)
	}
	if IsBinary(head) {
		return single(msgBinary, width)
	}

	lines := TextLines(head, maxLines, width)
	if len(lines) == 0 {
		return single(msgEmptyFile, width)
	}
	return lines
}

// IsBinary reports whether the first bytes of a file look like binary data.
func IsBinary(head []byte) bool {
	if bytes.HasPrefix(head, []byte("%PDF-")) {
		return true
	}
	peek := head
	if len(peek) > binaryPeekBytes {
		peek = peek[:binaryPeekBytes]
	}
	return bytes.IndexByte(peek, 0) >= 0
}

// TextLines splits content into at most maxLines lines fitted to width.
func TextLines(content []byte, maxLines, width int) []string {
	if len(content) == 0 || maxLines <= 0 {
		return nil
	}
	content = bytes.TrimSuffix(content, []byte("\n"))
	lines := make([]string, 0, min(maxLines, 64))
	for len(content) > 0 || len(lines) == 0 {
		var raw []byte
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			raw, content = content[:i], content[i+1:]
		} else {
			raw, content = content, nil
		}
		raw = bytes.TrimSuffix(raw, []byte("\r"))
		lines = append(lines, textutil.FitWidth(string(raw), width))
		if len(lines) == maxLines {
			break
		}
	}
	return lines
}

// DirectoryLines renders a directory listing, marking overflow with "..." on
// the last line and padding to maxLines.
func DirectoryLines(entries []fsutil.Entry, maxLines, width int) []string {
	maxLines = max(maxLines, MinLines)
	lines := make([]string, 0, maxLines)
	for _, e := range entries {
		if len(lines) == maxLines {
			break
		}
		lines = append(lines, textutil.FitWidth(e.DisplayName(), width))
	}
	switch {
	case len(lines) == 0:
		lines = append(lines, textutil.FitWidth(msgEmptyDir, width))
	case len(entries) > maxLines:
		lines[len(lines)-1] = textutil.FitWidth(msgMore, width)
	}
	return pad(lines, maxLines, width)
}

// DirectoryError renders a failed directory read.
func DirectoryError(err error, maxLines, width int) []string {
	var ioErr *protocol.IoError
	if errors.As(err, &ioErr) {
		err = ioErr.Err
	}
	lines := []string{textutil.FitWidth("[Error: "+err.Error()+"]", width)}
	return pad(lines, max(maxLines, MinLines), width)
}

func openErrorMessage(err error) string {
	switch {
	case errors.Is(err, iofs.ErrPermission):
		return msgPermissionDenied
	case errors.Is(err, iofs.ErrNotExist):
		return msgNotFound
	default:
		return fmt.Sprintf("[Error reading file: %v]", err)
	}
}

func single(msg string, width int) []string {
	return []string{textutil.FitWidth(msg, width)}
}

func pad(lines []string, n, width int) []string {
	for len(lines) < n {
		lines = append(lines, textutil.Blank(width))
	}
	return lines
}
