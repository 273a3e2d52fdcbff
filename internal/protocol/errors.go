package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkerUnavailable is returned when a request cannot be queued
	// because the worker's queue is full or the worker has stopped.
	ErrWorkerUnavailable = errors.New("worker unavailable")

	// ErrToolMissing reports that a required external program is absent.
	ErrToolMissing = errors.New("external tool not found")

	// ErrStale marks a response that was superseded before it was applied.
	// It is never shown to the user.
	ErrStale = errors.New("stale response")

	// ErrCancelled is attached to responses of requests aborted mid-flight.
	ErrCancelled = errors.New("request cancelled")
)

// IoError is a filesystem failure scoped to a single operation and path.
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// NewIoError wraps err, returning nil when err is nil.
func NewIoError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IoError{Op: op, Path: path, Err: err}
}
