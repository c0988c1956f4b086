package ingest

import "fmt"

// The pipeline reports failures through a small typed taxonomy so handlers
// can map each class to a status code without string matching. Every error
// carries a message safe to show to callers; causes are wrapped for logs.

// ValidationError means the request itself was bad. Never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// AcquisitionError means the audio track could not be obtained, e.g. the
// extraction download failed or timed out.
type AcquisitionError struct {
	Message string
	Cause   error
}

func (e *AcquisitionError) Error() string { return e.Message }
func (e *AcquisitionError) Unwrap() error { return e.Cause }

// UploadError means the object store rejected or aborted the upload. The
// pipeline never reaches the transactional step after one of these.
type UploadError struct {
	Message string
	Cause   error
}

func (e *UploadError) Error() string { return e.Message }
func (e *UploadError) Unwrap() error { return e.Cause }

// PersistenceError means the database transaction failed and was rolled
// back. If an object was already uploaded, a compensating delete has been
// attempted by the time this error reaches the caller.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string { return e.Message }
func (e *PersistenceError) Unwrap() error { return e.Cause }

// NotFoundError means the requested song does not exist. No side effects.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
