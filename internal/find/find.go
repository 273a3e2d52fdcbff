// Package find runs recursive fuzzy searches through an external file
// finder and scores its output.
package find

import (
	"bufio"
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/kk-code-lab/runa/internal/protocol"
)

const (
	DefaultTool       = "fd"
	DefaultMaxResults = 2000
	MinMaxResults     = 15
	MaxMaxResults     = 1_000_000

	// ToolMissingNotice is shown when the finder binary is absent.
	ToolMissingNotice = "Fuzzy find requires the `fd` tool."

	waitDelay = time.Second
)

// DefaultExcludes are always passed to the finder.
var DefaultExcludes = []string{
	".git", ".hg", ".svn", ".rustup", ".cargo", "target", "node_modules",
	"dist", "venv", ".venv", "__pycache__", ".DS_Store", "build", "out",
	"bin", "obj",
}

// ClampMaxResults bounds n to [MinMaxResults, MaxMaxResults]. The second
// return value reports whether n was changed.
func ClampMaxResults(n int) (int, bool) {
	switch {
	case n < MinMaxResults:
		return MinMaxResults, true
	case n > MaxMaxResults:
		return MaxMaxResults, true
	default:
		return n, false
	}
}

// Finder wraps the external finder. Tool presence is resolved once.
type Finder struct {
	tool      string
	bin       string
	available atomic.Bool
	logger    *slog.Logger
}

// NewFinder looks up tool on PATH. An empty tool means DefaultTool.
func NewFinder(tool string, logger *slog.Logger) *Finder {
	if tool == "" {
		tool = DefaultTool
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f := &Finder{tool: tool, logger: logger}
	if bin, err := exec.LookPath(tool); err == nil {
		f.bin = bin
		f.available.Store(true)
	} else {
		logger.Info("finder not available", "tool", tool, "error", err)
	}
	return f
}

// Available reports whether the finder binary was found at startup.
func (f *Finder) Available() bool {
	return f.available.Load()
}

// Args builds the finder command line for root. The output is not capped:
// the result limit applies after scoring, so every entry must be seen.
func Args(root string, exclude []string) []string {
	args := []string{".", root, "--type", "f", "--type", "d", "--hidden"}
	seen := make(map[string]struct{}, len(DefaultExcludes)+len(exclude))
	for _, group := range [][]string{DefaultExcludes, exclude} {
		for _, pattern := range group {
			if pattern == "" {
				continue
			}
			if _, dup := seen[pattern]; dup {
				continue
			}
			seen[pattern] = struct{}{}
			args = append(args, "--exclude", pattern)
		}
	}
	return append(args, "--color", "never")
}

// Search runs the finder under root and scores its output against the
// query. An empty query yields no matches without spawning anything.
func (f *Finder) Search(ctx context.Context, p protocol.FindPayload) (protocol.FindResult, error) {
	result := protocol.FindResult{Root: p.Root, Query: p.Query}
	if strings.TrimSpace(p.Query) == "" {
		return result, nil
	}
	if !f.Available() {
		return result, fmt.Errorf("%s: %w", f.tool, protocol.ErrToolMissing)
	}
	limit, _ := ClampMaxResults(p.MaxResults)

	cmd := exec.CommandContext(ctx, f.bin, Args(p.Root, p.Exclude)...)
	cmd.Stderr = io.Discard
	cmd.WaitDelay = waitDelay
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return result, protocol.NewIoError("find", p.Root, err)
	}
	if err := cmd.Start(); err != nil {
		return result, protocol.NewIoError("find", p.Root, err)
	}

	top := newCollector(p.Root, p.Query, limit)
	batch := make([]string, 0, scoreBatch)
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}
		batch = append(batch, scanner.Text())
		if len(batch) == scoreBatch {
			top.add(batch)
			batch = batch[:0]
		}
	}
	top.add(batch)
	scanErr := scanner.Err()
	waitErr := cmd.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}
	if scanErr != nil {
		return result, protocol.NewIoError("find", p.Root, scanErr)
	}
	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return result, protocol.NewIoError("find", p.Root, waitErr)
	}
	if waitErr != nil {
		// fd exits non-zero when some directories were unreadable; what it
		// printed is still valid.
		f.logger.Debug("finder exited with error", "root", p.Root, "error", waitErr)
	}

	result.Matches = top.matches()
	for i := range result.Matches {
		m := &result.Matches[i]
		if !m.IsDir {
			if info, err := os.Stat(m.Path); err == nil {
				m.IsDir = info.IsDir()
			}
		}
	}
	return result, nil
}

// Score fuzzy matches finder output lines against query. Paths are made
// relative to root with forward slashes, separators are removed on both
// sides before matching, and the best limit matches are returned in
// descending score order. Equal scores keep their input order.
func Score(root, query string, lines []string, limit int) []protocol.FindMatch {
	c := newCollector(root, query, limit)
	c.add(lines)
	return c.matches()
}

// scoreBatch is how many finder lines are scored per fuzzy.Find call.
const scoreBatch = 4096

type candidate struct {
	match protocol.FindMatch
	seq   int
}

// worse orders candidates so the heap root is the one to evict first.
func (a candidate) worse(b candidate) bool {
	if a.match.Score != b.match.Score {
		return a.match.Score < b.match.Score
	}
	return a.seq > b.seq
}

type candidateHeap []candidate

func (h candidateHeap) Len() int           { return len(h) }
func (h candidateHeap) Less(i, j int) bool { return h[i].worse(h[j]) }
func (h candidateHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *candidateHeap) Pop() any {
	old := *h
	c := old[len(old)-1]
	*h = old[:len(old)-1]
	return c
}

// collector keeps the best limit matches seen so far, so memory stays
// bounded however much the finder prints.
type collector struct {
	root  string
	query string
	limit int
	seq   int
	best  candidateHeap
}

func newCollector(root, query string, limit int) *collector {
	return &collector{root: root, query: flatten(query), limit: limit}
}

func (c *collector) add(lines []string) {
	if c.query == "" || c.limit <= 0 || len(lines) == 0 {
		return
	}
	rels := make([]string, 0, len(lines))
	dirs := make([]bool, 0, len(lines))
	flats := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		isDir := strings.HasSuffix(line, "/") || strings.HasSuffix(line, `\`)
		line = strings.TrimRight(line, `/\`)
		if line == "" {
			continue
		}
		rel := relative(c.root, line)
		if rel == "" || rel == "." {
			continue
		}
		rels = append(rels, rel)
		dirs = append(dirs, isDir)
		flats = append(flats, flatten(rel))
	}

	found := fuzzy.Find(c.query, flats)
	// fuzzy.Find sorts by score; restore input order for stable ties.
	sort.Slice(found, func(i, j int) bool { return found[i].Index < found[j].Index })
	base := c.seq
	c.seq += len(flats)
	for _, m := range found {
		rel := rels[m.Index]
		cand := candidate{
			match: protocol.FindMatch{
				Path:  filepath.Join(c.root, filepath.FromSlash(rel)),
				Rel:   rel,
				IsDir: dirs[m.Index],
				Score: m.Score,
			},
			seq: base + m.Index,
		}
		if len(c.best) < c.limit {
			heap.Push(&c.best, cand)
			continue
		}
		if c.best[0].worse(cand) {
			c.best[0] = cand
			heap.Fix(&c.best, 0)
		}
	}
}

// matches returns the kept matches, best first.
func (c *collector) matches() []protocol.FindMatch {
	ranked := append(candidateHeap(nil), c.best...)
	sort.Slice(ranked, func(i, j int) bool { return ranked[j].worse(ranked[i]) })
	out := make([]protocol.FindMatch, len(ranked))
	for i, cand := range ranked {
		out[i] = cand.match
	}
	return out
}

// Handle implements the worker handler signature.
func (f *Finder) Handle(ctx context.Context, req protocol.Request) (protocol.Result, error) {
	p, ok := req.Payload.(protocol.FindPayload)
	if !ok {
		return nil, fmt.Errorf("find worker: unexpected payload %T", req.Payload)
	}
	res, err := f.Search(ctx, p)
	return res, err
}

func relative(root, path string) string {
	if filepath.IsAbs(path) && root != "" {
		if rel, err := filepath.Rel(root, path); err == nil {
			path = rel
		}
	}
	path = strings.ReplaceAll(path, `\`, "/")
	return strings.TrimPrefix(path, "./")
}

func flatten(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return -1
		}
		return r
	}, s)
}
