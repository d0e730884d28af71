package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is a machine-readable error category.
type Kind string

const (
	KindUpstreamUnreachable  Kind = "UPSTREAM_UNREACHABLE"   // 502
	KindUpstreamParseFailure Kind = "UPSTREAM_PARSE_FAILURE" // 502
	KindInferenceAuthFailure Kind = "INFERENCE_AUTH_FAILURE" // 502
	KindInferenceThrottled   Kind = "INFERENCE_THROTTLED"    // 429
	KindInferenceUnavailable Kind = "INFERENCE_UNAVAILABLE"  // 502
	KindInvalidRequest       Kind = "INVALID_REQUEST"        // 400
	KindNotFound             Kind = "NOT_FOUND"              // 404
	KindInternal             Kind = "INTERNAL"               // 500
)

// Error carries a kind, an HTTP status, and a human-readable message.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewUpstreamUnreachable wraps a network or status failure talking to the
// listing or article source.
func NewUpstreamUnreachable(url string, err error) *Error {
	return &Error{
		Kind:    KindUpstreamUnreachable,
		Status:  http.StatusBadGateway,
		Message: fmt.Sprintf("upstream source unreachable: %s", url),
		Err:     err,
	}
}

// NewUpstreamParseFailure reports HTML that was fetched but yielded no
// usable content.
func NewUpstreamParseFailure(msg string) *Error {
	return &Error{
		Kind:    KindUpstreamParseFailure,
		Status:  http.StatusBadGateway,
		Message: msg,
	}
}

// NewInferenceAuthFailure reports a credential or permission rejection from
// the inference endpoint.
func NewInferenceAuthFailure(msg string) *Error {
	return &Error{
		Kind:    KindInferenceAuthFailure,
		Status:  http.StatusBadGateway,
		Message: msg,
	}
}

// NewInferenceThrottled reports rate limiting by the inference endpoint.
func NewInferenceThrottled(msg string) *Error {
	return &Error{
		Kind:    KindInferenceThrottled,
		Status:  http.StatusTooManyRequests,
		Message: msg,
	}
}

// NewInferenceUnavailable reports an outage, transport failure, or malformed
// response from the inference endpoint.
func NewInferenceUnavailable(msg string, err error) *Error {
	return &Error{
		Kind:    KindInferenceUnavailable,
		Status:  http.StatusBadGateway,
		Message: msg,
		Err:     err,
	}
}

// NewInvalidRequest reports a caller mistake such as an empty question.
func NewInvalidRequest(msg string) *Error {
	return &Error{
		Kind:    KindInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

// NewNotFound reports an unknown letter or history entry identifier.
func NewNotFound(identifier string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("not found: %s", identifier),
	}
}

// NewInternal wraps an unexpected error.
func NewInternal(err error) *Error {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Kind:    KindInternal,
		Status:  http.StatusInternalServerError,
		Message: msg,
		Err:     err,
	}
}

// Is reports whether err is (or wraps) an Error with the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf returns the kind of err, or KindInternal for plain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status for err, or 500 for plain errors.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}
