package agenda

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the pipeline. Callers match them with errors.Is.
var (
	ErrInputSourceUnavailable   = errors.New("input source unavailable")
	ErrMalformedRow             = errors.New("malformed row")
	ErrOutputSinkUnavailable    = errors.New("output sink unavailable")
	ErrStyleResourceUnavailable = errors.New("style resource unavailable")
	ErrWriteFailure             = errors.New("write failure")
)

// RowError reports a single structured-input row that could not be decoded.
// It is recoverable: records read before it remain valid.
type RowError struct {
	Line   int
	Reason string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, ErrMalformedRow, e.Message())
}

// Message describes what was wrong with the row, without the line number.
func (e *RowError) Message() string {
	if e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason
}

func (e *RowError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformedRow, e.Err}
	}
	return []error{ErrMalformedRow}
}

// IsRecoverable reports whether err is a row-level ingest error that leaves
// previously collected records usable.
func IsRecoverable(err error) bool {
	var rowErr *RowError
	return errors.As(err, &rowErr)
}
