package services

import (
	"errors"
	"fmt"
)

var (
	ErrTransport         = errors.New("transport error")
	ErrEmptyResponse     = errors.New("empty response")
	ErrMalformedResponse = errors.New("malformed response")
	ErrFileRead          = errors.New("file read error")
)

// AnalysisError tags a failed analysis attempt with one of the kind
// sentinels above. errors.Is matches both the kind and the wrapped cause.
type AnalysisError struct {
	Kind error
	Err  error
}

func (e *AnalysisError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *AnalysisError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newAnalysisError(kind, err error) *AnalysisError {
	return &AnalysisError{Kind: kind, Err: err}
}

// ErrorKind returns a stable label for logging. Unknown errors are "internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrFileRead):
		return "file_read"
	default:
		return "internal"
	}
}

// DisplayMessage maps an analysis failure to the text shown on the failure
// panel. Diagnostic detail stays in the logs.
func DisplayMessage(err error) string {
	switch {
	case errors.Is(err, ErrFileRead):
		return "Failed to read file."
	case errors.Is(err, ErrTransport):
		return "The review service could not be reached. Please try again."
	case errors.Is(err, ErrEmptyResponse):
		return "The reviewer returned an empty response. Please try again."
	case errors.Is(err, ErrMalformedResponse):
		return "The reviewer returned an unreadable report. Please try again."
	default:
		return "An error occurred during analysis."
	}
}
