package datasource

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a fetch failed
type ErrorKind int

const (
	// NetworkFailure covers unreachable hosts, timeouts and cancellation.
	NetworkFailure ErrorKind = iota + 1
	// UpstreamError is a non-2xx response.
	UpstreamError
	// MalformedResponse is a body that does not match the expected schema.
	MalformedResponse
	// InvalidInput is a bad coordinate or query; it is returned to the caller.
	InvalidInput
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case UpstreamError:
		return "upstream error"
	case MalformedResponse:
		return "malformed response"
	case InvalidInput:
		return "invalid input"
	default:
		return "unknown"
	}
}

// Error is the error type returned by sources and the client
type Error struct {
	Kind       ErrorKind
	Op         string
	Provider   string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Provider != "" {
		msg = fmt.Sprintf("[%s] %s", e.Provider, msg)
	}
	if e.Op != "" {
		msg = fmt.Sprintf("%s: %s", e.Op, msg)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a transport failure
func NewNetworkError(provider, op string, err error) *Error {
	return &Error{Kind: NetworkFailure, Op: op, Provider: provider, Err: err}
}

// NewUpstreamError records a non-2xx response and a trimmed copy of its body
func NewUpstreamError(provider, op string, status int, body []byte) *Error {
	const maxBody = 200
	if len(body) > maxBody {
		body = body[:maxBody]
	}
	var err error
	if len(body) > 0 {
		err = errors.New(string(body))
	}
	return &Error{Kind: UpstreamError, Op: op, Provider: provider, StatusCode: status, Err: err}
}

// NewMalformedError wraps a decode or schema failure
func NewMalformedError(provider, op string, err error) *Error {
	return &Error{Kind: MalformedResponse, Op: op, Provider: provider, Err: err}
}

// NewInvalidInput wraps a rejected argument
func NewInvalidInput(op string, err error) *Error {
	return &Error{Kind: InvalidInput, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsInvalidInput reports whether err was caused by a bad argument
func IsInvalidInput(err error) bool {
	return KindOf(err) == InvalidInput
}
