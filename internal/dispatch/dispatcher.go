// Package dispatch tags outgoing requests and decides which responses are
// still fresh. It is owned by the interaction goroutine and is not safe for
// concurrent use.
package dispatch

import (
	"io"
	"log/slog"

	"github.com/kk-code-lab/runa/internal/protocol"
)

// Submitter hands a request to a worker without blocking.
type Submitter interface {
	Submit(req protocol.Request) error
}

// Dispatcher tracks the newest issued id per (context, kind).
type Dispatcher struct {
	sub     Submitter
	logger  *slog.Logger
	current map[protocol.Key]protocol.RequestID
}

// New returns a dispatcher sending through sub.
func New(sub Submitter, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Dispatcher{
		sub:     sub,
		logger:  logger,
		current: make(map[protocol.Key]protocol.RequestID),
	}
}

// Issue sends payload for ctx and records its id as current. When the worker
// cannot take the request the error wraps protocol.ErrWorkerUnavailable and
// the current id is left untouched.
func (d *Dispatcher) Issue(ctx protocol.Context, payload protocol.Payload) (protocol.RequestID, error) {
	key := protocol.Key{Context: ctx, Kind: payload.Kind()}
	id := d.current[key] + 1
	req := protocol.NewRequest(id, ctx, payload)
	if err := d.sub.Submit(req); err != nil {
		d.logger.Warn("issue failed", "key", key.String(), "id", uint64(id), "error", err)
		return 0, err
	}
	d.current[key] = id
	return id, nil
}

// Accept reports whether resp answers the newest request for its key.
func (d *Dispatcher) Accept(resp protocol.Response) bool {
	cur, ok := d.current[resp.Key()]
	if !ok || resp.ID != cur {
		d.logger.Debug("stale response dropped", "key", resp.Key().String(), "id", uint64(resp.ID), "current", uint64(cur))
		return false
	}
	return true
}

// Invalidate makes every in-flight response for the key stale without
// sending anything.
func (d *Dispatcher) Invalidate(ctx protocol.Context, kind protocol.Kind) {
	key := protocol.Key{Context: ctx, Kind: kind}
	d.current[key]++
}

// Current returns the newest id for the key, or zero if none was issued.
func (d *Dispatcher) Current(ctx protocol.Context, kind protocol.Kind) protocol.RequestID {
	return d.current[protocol.Key{Context: ctx, Kind: kind}]
}
