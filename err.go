package adminkit

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed API call. Every failure mode of the client
// collapses into exactly one of these, so call sites only ever deal with
// "success or *Error", never a panic or an untyped surprise.
type Kind int

const (
	// KindTransport covers network-level failures: connection refused,
	// timeouts, DNS errors, cancelled contexts.
	KindTransport Kind = iota
	// KindServer covers non-2xx responses. The server-supplied message is
	// carried when the body has one, otherwise a generic fallback is used.
	KindServer
	// KindDecode covers responses whose body could not be parsed as the
	// expected JSON.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// genericServerMessage is shown when the server rejects a request without
// providing a usable message of its own.
const genericServerMessage = "the server could not process the request"

// Error is the single error variant returned by all client operations.
// Message is always human-readable and safe to surface in the UI.
type Error struct {
	Kind       Kind
	StatusCode int // set for KindServer, zero otherwise
	Message    string
	cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Unauthorized reports whether the server rejected the request for lack of a
// valid session. The client never redirects on its own; the surrounding
// session-aware layer is expected to check this.
func (e *Error) Unauthorized() bool {
	return e.Kind == KindServer && e.StatusCode == http.StatusUnauthorized
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: "could not reach the server", cause: err}
}

func serverError(status int, message string) *Error {
	if message == "" {
		message = genericServerMessage
	}
	return &Error{Kind: KindServer, StatusCode: status, Message: message}
}

func decodeError(err error) *Error {
	return &Error{Kind: KindDecode, Message: "the server returned an unreadable response", cause: err}
}

// AsError unwraps err into *Error when it is (or wraps) one.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
