package client

import (
	"errors"
	"fmt"
)

// ErrorKind classifies upstream failures at the fetch boundary.
type ErrorKind int

const (
	// Transient failures (network errors, throttling, upstream 5xx) are
	// worth retrying.
	Transient ErrorKind = iota
	// Permanent failures (bad key, auth, malformed request) will not
	// succeed on retry.
	Permanent
)

func (k ErrorKind) String() string {
	if k == Permanent {
		return "permanent"
	}
	return "transient"
}

// FetchError is an upstream fetch failure with its retry classification.
type FetchError struct {
	Kind     ErrorKind
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetch failed (%s): %v", e.Endpoint, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a fetch error classified as transient.
// Errors with no classification are treated as transient.
func IsTransient(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind == Transient
	}
	return true
}

// DataShapeError reports a fetched record set that does not match the
// expected shape (missing result set, missing column, wrong arity). The
// batch policy is to log these and continue with best-effort partial data.
type DataShapeError struct {
	Endpoint string
	Detail   string
}

func (e *DataShapeError) Error() string {
	return fmt.Sprintf("%s: unexpected data shape: %s", e.Endpoint, e.Detail)
}

// ErrRetriesExhausted marks a terminal failure after the full retry budget,
// distinguishable from a single-attempt failure via errors.Is.
var ErrRetriesExhausted = errors.New("retry budget exhausted")

// ExhaustedError wraps the last attempt's error once the budget is spent.
type ExhaustedError struct {
	Op       string
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrRetriesExhausted, e.Last}
}
