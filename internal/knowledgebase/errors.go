package knowledgebase

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	KindUnknown Kind = iota
	// KindStatus is a non-2xx response from the upstream API.
	KindStatus
	// KindTransport covers DNS, connection and body read failures.
	KindTransport
	// KindDecode is a 2xx response whose body is not JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is returned by every Client operation.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("invalid JSON response: %v", e.Err)
	default:
		return fmt.Sprintf("request failed: %v", e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of a gateway error, or KindUnknown for anything else.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return KindUnknown
}
