package domain

import "fmt"

// ValidationError reports missing or malformed input. The caller can correct
// the payload and resubmit; nothing is retried automatically.
type ValidationError struct {
	Message string
	Missing []string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// ImageIngestionError reports an image that could not be accepted or
// forwarded to the host. The reason is surfaced verbatim to the caller.
type ImageIngestionError struct {
	Reason string
}

func (e *ImageIngestionError) Error() string { return e.Reason }

// PersistenceError reports a repository read or write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
