// Package protocol defines the messages exchanged between the interaction
// loop and the background workers. Requests and responses are immutable
// values; ownership of a response moves entirely to the receiver.
package protocol

import "fmt"

// RequestID tags a request. IDs increase monotonically per (Context, Kind).
type RequestID uint64

// Context names the consumer of a response. The same kind of work may be
// issued for different consumers, e.g. a directory listing for the main pane
// and another for the parent pane, and each is tracked independently.
type Context uint8

const (
	ContextMain Context = iota + 1
	ContextParent
	ContextPreview
	ContextFind
	ContextFileOp
)

func (c Context) String() string {
	switch c {
	case ContextMain:
		return "main"
	case ContextParent:
		return "parent"
	case ContextPreview:
		return "preview"
	case ContextFind:
		return "find"
	case ContextFileOp:
		return "fileop"
	default:
		return fmt.Sprintf("context(%d)", uint8(c))
	}
}

// Kind selects the worker that executes a request.
type Kind uint8

const (
	KindList Kind = iota + 1
	KindPreview
	KindFind
	KindFileOp
)

// Kinds lists every worker kind in a stable order.
var Kinds = []Kind{KindList, KindPreview, KindFind, KindFileOp}

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindPreview:
		return "preview"
	case KindFind:
		return "find"
	case KindFileOp:
		return "fileop"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Key identifies an independent request id sequence.
type Key struct {
	Context Context
	Kind    Kind
}

func (k Key) String() string {
	return k.Context.String() + "/" + k.Kind.String()
}

// Request is a unit of work for a worker.
type Request struct {
	ID      RequestID
	Context Context
	Kind    Kind
	Payload Payload
}

// NewRequest builds a request that shares no mutable state with payload.
func NewRequest(id RequestID, ctx Context, payload Payload) Request {
	return Request{
		ID:      id,
		Context: ctx,
		Kind:    payload.Kind(),
		Payload: clonePayload(payload),
	}
}

// Key returns the sequence the request belongs to.
func (r Request) Key() Key {
	return Key{Context: r.Context, Kind: r.Kind}
}

// Reply builds the response for r.
func (r Request) Reply(result Result, err error) Response {
	return Response{
		ID:      r.ID,
		Context: r.Context,
		Kind:    r.Kind,
		Result:  result,
		Err:     err,
	}
}

// Response carries the outcome of a request back to the interaction loop.
// Exactly one of Result or Err is usually set; a cancelled or failed request
// may carry both a partial Result and Err.
type Response struct {
	ID      RequestID
	Context Context
	Kind    Kind
	Result  Result
	Err     error
}

// Key returns the sequence the response belongs to.
func (r Response) Key() Key {
	return Key{Context: r.Context, Kind: r.Kind}
}
