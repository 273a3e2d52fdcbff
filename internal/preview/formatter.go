package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/kk-code-lab/runa/internal/protocol"
)

// DefaultFormatter is the external program used for method "bat".
const DefaultFormatter = "bat"

// ErrFormatterFailed is returned when the formatter exits unsuccessfully or
// prints nothing.
var ErrFormatterFailed = errors.New("formatter failed")

// Formatter pipes files through an external highlighter.
type Formatter struct {
	lookPath func(string) (string, error)

	mu    sync.Mutex
	paths map[string]string
}

// NewFormatter returns a formatter resolving commands from PATH.
func NewFormatter() *Formatter {
	return &Formatter{lookPath: exec.LookPath, paths: make(map[string]string)}
}

// Args builds the formatter command line, excluding the program name.
func Args(opts protocol.FormatterOptions, path string, width, maxLines int) []string {
	style := opts.Style
	if style == "" {
		style = "plain"
	}
	wrap := "never"
	if opts.Wrap {
		wrap = "character"
	}
	args := []string{
		"--color=never",
		"--paging=never",
		"--style=" + style,
		"--wrap=" + wrap,
		"--terminal-width=" + strconv.Itoa(width),
		"--line-range=:" + strconv.Itoa(maxLines),
	}
	if opts.Theme != "" && opts.Theme != "default" {
		args = append(args, "--theme="+opts.Theme)
	}
	args = append(args, opts.Args...)
	return append(args, path)
}

// Format runs the formatter for p and fits its output to p.Width.
func (f *Formatter) Format(ctx context.Context, p protocol.PreviewPayload) ([]string, error) {
	name := p.Formatter.Command
	if name == "" {
		name = DefaultFormatter
	}
	bin, err := f.resolve(name)
	if err != nil {
		return nil, err
	}

	maxLines := max(p.MaxLines, MinLines)
	cmd := exec.CommandContext(ctx, bin, Args(p.Formatter, p.Path, p.Width, maxLines)...)
	cmd.Stderr = io.Discard
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", name, ErrFormatterFailed, err)
	}
	lines := TextLines(bytes.TrimRight(out, "\n"), maxLines, p.Width)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w: empty output", name, ErrFormatterFailed)
	}
	return lines, nil
}

func (f *Formatter) resolve(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if bin, ok := f.paths[name]; ok {
		if bin == "" {
			return "", fmt.Errorf("%s: %w", name, protocol.ErrToolMissing)
		}
		return bin, nil
	}
	bin, err := f.lookPath(name)
	if err != nil {
		f.paths[name] = ""
		return "", fmt.Errorf("%s: %w", name, protocol.ErrToolMissing)
	}
	f.paths[name] = bin
	return bin, nil
}
