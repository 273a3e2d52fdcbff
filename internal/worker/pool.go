// Package worker runs the long-lived background workers. Each kind of work
// has exactly one goroutine consuming its own queue, so requests of one kind
// execute one at a time in submission order.
package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kk-code-lab/runa/internal/protocol"
)

const (
	DefaultQueueSize      = 16
	DefaultResponseBuffer = 64
)

// HandlerFunc executes a single request. The context is cancelled when the
// pool shuts down or, for superseding kinds, when a newer request arrives.
type HandlerFunc func(ctx context.Context, req protocol.Request) (protocol.Result, error)

// State is the diagnostic state of a worker.
type State int32

const (
	StateIdle State = iota
	StateProcessing
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Config describes the pool. Handlers without an entry are not started and
// submissions for them fail with protocol.ErrWorkerUnavailable.
type Config struct {
	Handlers       map[protocol.Kind]HandlerFunc
	QueueSize      int
	ResponseBuffer int
	Logger         *slog.Logger
}

// Pool owns the workers and their shared response channel.
type Pool struct {
	logger    *slog.Logger
	workers   map[protocol.Kind]*worker
	responses chan protocol.Response

	group   *errgroup.Group
	cancel  context.CancelFunc
	started atomic.Bool
	closed  atomic.Bool
	once    sync.Once
}

type worker struct {
	kind    protocol.Kind
	handler HandlerFunc
	queue   chan queued

	// coalesce keeps only the newest queued request.
	coalesce bool
	// supersede cancels the running request when a new one is submitted.
	supersede bool

	state atomic.Int32

	mu       sync.Mutex
	inflight context.CancelFunc
	// gen counts submissions on superseding workers. A request whose gen
	// is behind it was replaced before it started.
	gen uint64
}

type queued struct {
	req protocol.Request
	gen uint64
}

// New builds a pool. Call Start to launch the goroutines.
func New(cfg Config) *Pool {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	buffer := cfg.ResponseBuffer
	if buffer <= 0 {
		buffer = DefaultResponseBuffer
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	p := &Pool{
		logger:    logger,
		workers:   make(map[protocol.Kind]*worker, len(cfg.Handlers)),
		responses: make(chan protocol.Response, buffer),
	}
	for kind, handler := range cfg.Handlers {
		if handler == nil {
			continue
		}
		p.workers[kind] = &worker{
			kind:      kind,
			handler:   handler,
			queue:     make(chan queued, queueSize),
			coalesce:  kind == protocol.KindPreview || kind == protocol.KindFind,
			supersede: kind == protocol.KindFind,
		}
	}
	return p
}

// Start launches one goroutine per worker. It is a no-op after the first call.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	g, gctx := errgroup.WithContext(ctx)
	p.group = g
	for _, w := range p.workers {
		w := w
		g.Go(func() error {
			p.run(gctx, w)
			return nil
		})
	}
}

// Submit queues req without blocking.
func (p *Pool) Submit(req protocol.Request) error {
	if p.closed.Load() {
		return fmt.Errorf("%s: %w", req.Kind, protocol.ErrWorkerUnavailable)
	}
	w, ok := p.workers[req.Kind]
	if !ok {
		return fmt.Errorf("%s: %w", req.Kind, protocol.ErrWorkerUnavailable)
	}
	item := queued{req: req}
	if w.supersede {
		item.gen = w.supersedeInflight()
	}

	select {
	case w.queue <- item:
		return nil
	default:
	}

	if w.coalesce {
		// Full queue: the oldest pending request will be superseded anyway.
		select {
		case <-w.queue:
		default:
		}
		select {
		case w.queue <- item:
			return nil
		default:
		}
	}
	return fmt.Errorf("%s queue full: %w", req.Kind, protocol.ErrWorkerUnavailable)
}

// Responses returns the channel the interaction loop drains. It is closed
// once Close has stopped every worker.
func (p *Pool) Responses() <-chan protocol.Response {
	return p.responses
}

// State reports the state of the worker for kind.
func (p *Pool) State(kind protocol.Kind) State {
	w, ok := p.workers[kind]
	if !ok {
		return StateStopped
	}
	return State(w.state.Load())
}

// Cancel aborts the request currently running on the worker for kind.
func (p *Pool) Cancel(kind protocol.Kind) {
	if w, ok := p.workers[kind]; ok {
		w.cancelInflight()
	}
}

// Close stops all workers and waits for them to exit.
func (p *Pool) Close() error {
	var err error
	p.once.Do(func() {
		p.closed.Store(true)
		if p.cancel != nil {
			p.cancel()
		}
		if p.group != nil {
			err = p.group.Wait()
		}
		for _, w := range p.workers {
			w.state.Store(int32(StateStopped))
		}
		close(p.responses)
	})
	return err
}

func (p *Pool) run(ctx context.Context, w *worker) {
	defer w.state.Store(int32(StateStopped))
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-w.queue:
			if w.coalesce {
				item = w.latest(item)
			}
			resp := p.execute(ctx, w, item)
			select {
			case p.responses <- resp:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (w *worker) latest(item queued) queued {
	for {
		select {
		case next := <-w.queue:
			item = next
		default:
			return item
		}
	}
}

func (p *Pool) execute(ctx context.Context, w *worker, item queued) (resp protocol.Response) {
	req := item.req
	reqCtx, cancel := context.WithCancel(ctx)
	w.mu.Lock()
	w.inflight = cancel
	if w.supersede && item.gen != w.gen {
		// A newer request arrived between dequeue and start.
		cancel()
	}
	w.mu.Unlock()
	w.state.Store(int32(StateProcessing))

	start := time.Now()
	defer func() {
		w.mu.Lock()
		w.inflight = nil
		w.mu.Unlock()
		cancel()
		w.state.Store(int32(StateIdle))
	}()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker panic", "kind", req.Kind.String(), "id", uint64(req.ID), "panic", fmt.Sprint(r))
			resp = req.Reply(nil, fmt.Errorf("%s worker: panic: %v", req.Kind, r))
		}
	}()

	result, err := w.handler(reqCtx, req)
	if err == nil && reqCtx.Err() != nil {
		err = protocol.ErrCancelled
	} else if errors.Is(err, context.Canceled) {
		err = fmt.Errorf("%w: %w", protocol.ErrCancelled, err)
	}

	elapsed := time.Since(start)
	if err != nil && !errors.Is(err, protocol.ErrCancelled) {
		p.logger.Warn("request failed", "kind", req.Kind.String(), "context", req.Context.String(), "id", uint64(req.ID), "duration", elapsed, "error", err)
	} else {
		p.logger.Debug("request done", "kind", req.Kind.String(), "context", req.Context.String(), "id", uint64(req.ID), "duration", elapsed)
	}
	return req.Reply(result, err)
}

// supersedeInflight starts a new generation and cancels the running
// request, returning the generation for the request being submitted.
func (w *worker) supersedeInflight() uint64 {
	w.mu.Lock()
	w.gen++
	gen := w.gen
	cancel := w.inflight
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return gen
}

func (w *worker) cancelInflight() {
	w.mu.Lock()
	cancel := w.inflight
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
