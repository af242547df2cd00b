package tutor

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindPayloadTooLarge Kind = "payload_too_large"
	KindUpstreamTimeout Kind = "upstream_timeout"
	KindUpstreamError   Kind = "upstream_error"
	KindInternal        Kind = "internal_error"
)

// HTTPStatus maps an error kind to the status returned to API callers.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput, KindPayloadTooLarge:
		return http.StatusBadRequest
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure; Detail is safe to show to the caller.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Detail {
		return string(e.Kind) + ": " + e.Detail + ": " + e.Err.Error()
	}
	return string(e.Kind) + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf classifies any error; unclassified errors are internal.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindInternal
}

// DetailOf returns the caller-facing detail for err.
func DetailOf(err error) string {
	var te *Error
	if errors.As(err, &te) {
		return te.Detail
	}
	return err.Error()
}
