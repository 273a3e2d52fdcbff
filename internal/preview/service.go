package preview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/kk-code-lab/runa/internal/protocol"
)

// Service answers preview requests.
type Service struct {
	formatter *Formatter
	logger    *slog.Logger
}

// NewService returns a preview service. A nil formatter disables the external
// method.
func NewService(formatter *Formatter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{formatter: formatter, logger: logger}
}

// Preview builds the result for p, falling back to the internal renderer
// when the external formatter cannot be used.
func (s *Service) Preview(ctx context.Context, p protocol.PreviewPayload) protocol.PreviewResult {
	result := protocol.PreviewResult{Path: p.Path, Generation: p.Generation}
	if p.Method == protocol.PreviewExternal && !isDir(p.Path) {
		if s.formatter != nil {
			lines, err := s.formatter.Format(ctx, p)
			if err == nil {
				result.Lines = lines
				return result
			}
			s.logger.Debug("formatter fallback", "path", p.Path, "error", err)
		}
		result.Fallback = true
	}
	result.Lines = Render(p)
	return result
}

// Handle implements the worker handler signature.
func (s *Service) Handle(ctx context.Context, req protocol.Request) (protocol.Result, error) {
	p, ok := req.Payload.(protocol.PreviewPayload)
	if !ok {
		return nil, fmt.Errorf("preview worker: unexpected payload %T", req.Payload)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Preview(ctx, p), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
