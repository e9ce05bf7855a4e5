package helper

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can react to the failure class
// without string matching.
type Kind string

const (
	KindInternal         Kind = "internal"
	KindNotFound         Kind = "not_found"
	KindConversionFailed Kind = "conversion_failed"
	KindEncodingFailed   Kind = "encoding_failed"
	KindGenerationFailed Kind = "generation_failed"
	KindConfiguration    Kind = "configuration_error"
)

// Error wraps an error with the task that failed and its kind.
type Error struct {
	Task string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("error at %s: %v", e.Task, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with task context. If the wrapped error already
// carries a kind it is inherited, so kinds survive multiple wraps.
func NewError(task string, err error) error {
	return &Error{Task: task, Kind: KindOf(err), Err: err}
}

// NewKindError wraps err with task context and an explicit kind.
func NewKindError(kind Kind, task string, err error) error {
	return &Error{Task: task, Kind: kind, Err: err}
}

// KindOf returns the kind carried by err, KindInternal if it has none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind at any wrap depth.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsNotFound reports whether err is a missing document/index/cache error.
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}
