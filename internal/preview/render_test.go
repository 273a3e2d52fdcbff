package preview

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fsutil "github.com/kk-code-lab/runa/internal/fs"
	"github.com/kk-code-lab/runa/internal/protocol"
	"github.com/kk-code-lab/runa/internal/textutil"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func assertWidth(t *testing.T, lines []string, width int) {
	t.Helper()
	for i, line := range lines {
		assert.Equal(t, width, textutil.DisplayWidth(line), "line %d %q", i, line)
	}
}

func TestRenderFitsEveryLine(t *testing.T) {
	dir := t.TempDir()
	content := "plain\n\tindented\n日本語のテキストが長い行\ncontrol\x1b[31mred\r\n\u202eflip\n"
	path := writeFile(t, dir, "mixed.txt", []byte(content))

	for _, width := range []int{1, 5, 12, 40} {
		lines := Render(protocol.PreviewPayload{Path: path, MaxLines: 10, Width: width})
		require.Len(t, lines, 5)
		assertWidth(t, lines, width)
	}

	lines := Render(protocol.PreviewPayload{Path: path, MaxLines: 10, Width: 12})
	assert.Equal(t, "    indented", lines[1])
	assert.False(t, strings.ContainsRune(lines[3], 0x1b))
}

func TestRenderRespectsMaxLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "many.txt", []byte("1\n2\n3\n4\n5\n6\n"))

	lines := Render(protocol.PreviewPayload{Path: path, MaxLines: 4, Width: 3})
	assert.Len(t, lines, 4)

	lines = Render(protocol.PreviewPayload{Path: path, MaxLines: 1, Width: 3})
	assert.Len(t, lines, MinLines)
}

func TestRenderMessages(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.txt", nil)
	binary := writeFile(t, dir, "bin.dat", []byte{'a', 0, 'b'})
	pdf := writeFile(t, dir, "doc.pdf", []byte("%PDF-1.7\nrest"))

	big := filepath.Join(dir, "big.log")
	f, err := os.Create(big)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(MaxFileSize+1))
	require.NoError(t, f.Close())

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty", empty, msgEmptyFile},
		{"nul byte", binary, msgBinary},
		{"pdf header", pdf, msgBinary},
		{"too large", big, msgTooLarge},
		{"missing", filepath.Join(dir, "nope"), msgAccessDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := Render(protocol.PreviewPayload{Path: tt.path, MaxLines: 5, Width: 40})
			require.Len(t, lines, 1)
			assert.Equal(t, textutil.FitWidth(tt.want, 40), lines[0])
		})
	}
}

func TestRenderDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	writeFile(t, dir, "a.txt", nil)

	lines := Render(protocol.PreviewPayload{
		Path:     dir,
		MaxLines: 4,
		Width:    10,
		Options:  fsutil.ListOptions{DirsFirst: true, ShowHidden: true},
	})
	require.Len(t, lines, 4)
	assertWidth(t, lines, 10)
	assert.Equal(t, "sub/      ", lines[0])
	assert.Equal(t, "a.txt     ", lines[1])
	assert.Equal(t, textutil.Blank(10), lines[3])
}

func TestDirectoryLines(t *testing.T) {
	entries := []fsutil.Entry{
		fsutil.NewEntry("/d", "one", false),
		fsutil.NewEntry("/d", "two", true),
		fsutil.NewEntry("/d", "three", false),
		fsutil.NewEntry("/d", "four", false),
	}

	lines := DirectoryLines(entries, 3, 6)
	assert.Equal(t, []string{"one   ", "two/  ", "...   "}, lines)

	lines = DirectoryLines(nil, 3, 20)
	require.Len(t, lines, 3)
	assert.Equal(t, textutil.FitWidth(msgEmptyDir, 20), lines[0])
}

func TestIsBinary(t *testing.T) {
	assert.True(t, IsBinary([]byte("%PDF-")))
	assert.False(t, IsBinary([]byte("hello")))

	late := make([]byte, binaryPeekBytes+10)
	for i := range late {
		late[i] = 'x'
	}
	late[binaryPeekBytes+5] = 0
	assert.False(t, IsBinary(late), "NUL past the peek window is ignored")
}

func TestArgs(t *testing.T) {
	args := Args(protocol.FormatterOptions{Style: "numbers", Wrap: true, Theme: "ansi", Args: []string{"--tabs=2"}}, "/f", 30, 7)
	assert.Equal(t, []string{
		"--color=never",
		"--paging=never",
		"--style=numbers",
		"--wrap=character",
		"--terminal-width=30",
		"--line-range=:7",
		"--theme=ansi",
		"--tabs=2",
		"/f",
	}, args)

	args = Args(protocol.FormatterOptions{}, "/f", 10, 3)
	assert.Contains(t, args, "--style=plain")
	assert.Contains(t, args, "--wrap=never")
	assert.NotContains(t, args, "--theme=")
}

func fakeFormatter(t *testing.T, script string) *Formatter {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}
	path := filepath.Join(t.TempDir(), "fmt.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return &Formatter{
		lookPath: func(string) (string, error) { return path, nil },
		paths:    make(map[string]string),
	}
}

func TestServiceUsesFormatter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "code.go", []byte("package main\n"))

	svc := NewService(fakeFormatter(t, "printf 'from\\tfmt\\nline two\\n'\n"), nil)
	res := svc.Preview(context.Background(), protocol.PreviewPayload{
		Path: path, MaxLines: 5, Width: 12, Method: protocol.PreviewExternal, Generation: 3,
	})
	assert.False(t, res.Fallback)
	assert.Equal(t, uint64(3), res.Generation)
	require.Len(t, res.Lines, 2)
	assert.Equal(t, "from    fmt ", res.Lines[0])
	assertWidth(t, res.Lines, 12)
}

func TestServiceFallsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "code.go", []byte("package main\n"))

	svc := NewService(fakeFormatter(t, "exit 3\n"), nil)
	res := svc.Preview(context.Background(), protocol.PreviewPayload{
		Path: path, MaxLines: 5, Width: 20, Method: protocol.PreviewExternal,
	})
	assert.True(t, res.Fallback)
	assert.Equal(t, textutil.FitWidth("package main", 20), res.Lines[0])
}

func TestServiceFallsBackWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("hi\n"))

	f := &Formatter{
		lookPath: func(string) (string, error) { return "", errors.New("not found") },
		paths:    make(map[string]string),
	}
	svc := NewService(f, nil)
	res := svc.Preview(context.Background(), protocol.PreviewPayload{
		Path: path, MaxLines: 3, Width: 4, Method: protocol.PreviewExternal,
	})
	assert.True(t, res.Fallback)
	assert.Equal(t, []string{"hi  "}, res.Lines)

	_, err := f.Format(context.Background(), protocol.PreviewPayload{Path: path})
	assert.ErrorIs(t, err, protocol.ErrToolMissing)
}

func TestServiceHandleRejectsPayload(t *testing.T) {
	svc := NewService(nil, nil)
	_, err := svc.Handle(context.Background(), protocol.NewRequest(1, protocol.ContextPreview, protocol.ListPayload{}))
	assert.Error(t, err)
}
