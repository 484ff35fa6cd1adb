package httpclient

import (
	"errors"
	"fmt"
)

// SentinelStatus is the StatusCode carried by a TransportError when no HTTP
// response was received at all.
const SentinelStatus = 504

var (
	// ErrTimeout is the cancellation cause of an internally owned call timer.
	ErrTimeout = errors.New("httpclient: call timed out")
	// ErrEngineClosed is returned for calls issued after the engine was shut down.
	ErrEngineClosed = errors.New("httpclient: engine closed")
)

// ErrorCode classifies transport errors.
type ErrorCode int

const (
	// ErrCodeValidation indicates an invalid header, timeout or verb, detected
	// before any network activity.
	ErrCodeValidation ErrorCode = iota
	// ErrCodeSerialization indicates the request model could not be encoded.
	ErrCodeSerialization
	// ErrCodeConnection indicates no response was obtained (DNS, connect, reset).
	ErrCodeConnection
	// ErrCodeTimeout indicates the internal call timer expired.
	ErrCodeTimeout
	// ErrCodeCanceled indicates the caller's signal canceled the call.
	ErrCodeCanceled
	// ErrCodeClosed indicates the engine was closed before the call.
	ErrCodeClosed
	// ErrCodeStatus indicates a non-2xx response.
	ErrCodeStatus
	// ErrCodeDeserialization indicates a 2xx body that could not be decoded.
	ErrCodeDeserialization
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeValidation:
		return "validation"
	case ErrCodeSerialization:
		return "serialization"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeClosed:
		return "closed"
	case ErrCodeStatus:
		return "status"
	case ErrCodeDeserialization:
		return "deserialization"
	default:
		return "unknown"
	}
}

// TransportError is the structured failure of one call. StatusCode is the
// observed HTTP status, SentinelStatus when no response was received, or 0
// when the call failed before being sent.
type TransportError struct {
	// Message describes the failure and names the verb and URL.
	Message string
	// StatusCode is the HTTP status code (see type docs).
	StatusCode int
	// Body is the response body, empty if unavailable.
	Body string
	// Headers are the flattened response headers, empty if no response.
	Headers []Header
	// Cause is the underlying error, nil when only the status was the problem.
	Cause error
	// Code classifies the error.
	Code ErrorCode
	// Method is the HTTP verb of the call.
	Method string
	// URL is the target of the call.
	URL string
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("httpclient: %s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Header returns the first response header value for key (case-insensitive).
func (e *TransportError) Header(key string) string {
	return lookupHeader(e.Headers, key)
}

func newValidationError(method, url string, cause error) *TransportError {
	return &TransportError{
		Message: fmt.Sprintf("invalid request %s %s", method, url),
		Cause:   cause,
		Code:    ErrCodeValidation,
		Method:  method,
		URL:     url,
	}
}

func newSerializationError(method, url string, cause error) *TransportError {
	return &TransportError{
		Message: fmt.Sprintf("encode request body for %s %s", method, url),
		Cause:   cause,
		Code:    ErrCodeSerialization,
		Method:  method,
		URL:     url,
	}
}

// newNoResponseError covers every failure where no HTTP status was observed.
func newNoResponseError(code ErrorCode, method, url string, cause error) *TransportError {
	var what string
	switch code {
	case ErrCodeTimeout:
		what = "timed out"
	case ErrCodeCanceled:
		what = "canceled"
	case ErrCodeClosed:
		what = "rejected by closed engine"
	default:
		what = "failed without response"
	}
	return &TransportError{
		Message:    fmt.Sprintf("%s %s %s", method, url, what),
		StatusCode: SentinelStatus,
		Cause:      cause,
		Code:       code,
		Method:     method,
		URL:        url,
	}
}

func newStatusError(method, url string, status int, body string, headers []Header) *TransportError {
	return &TransportError{
		Message:    fmt.Sprintf("%s %s returned HTTP %d", method, url, status),
		StatusCode: status,
		Body:       body,
		Headers:    headers,
		Code:       ErrCodeStatus,
		Method:     method,
		URL:        url,
	}
}

func newDeserializationError(method, url string, status int, body string, headers []Header, cause error) *TransportError {
	return &TransportError{
		Message:    fmt.Sprintf("decode response of %s %s (HTTP %d)", method, url, status),
		StatusCode: status,
		Body:       body,
		Headers:    headers,
		Cause:      cause,
		Code:       ErrCodeDeserialization,
		Method:     method,
		URL:        url,
	}
}

// AsTransportError extracts a *TransportError from err's chain.
func AsTransportError(err error) (*TransportError, bool) {
	var e *TransportError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsTransportError(err)
	return ok && e.Code == code
}

// IsTimeout checks if an error is a call timeout.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsCanceled checks if an error was caused by the caller's cancellation signal.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsConnection checks if an error is a connection failure.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsStatus checks if an error is a non-2xx response.
func IsStatus(err error) bool { return hasCode(err, ErrCodeStatus) }

// IsSerialization checks if an error is a request encoding failure.
func IsSerialization(err error) bool { return hasCode(err, ErrCodeSerialization) }

// IsDeserialization checks if an error is a response decoding failure.
func IsDeserialization(err error) bool { return hasCode(err, ErrCodeDeserialization) }

// IsValidation checks if an error is a request validation failure.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsClosed checks if an error was produced by a closed engine.
func IsClosed(err error) bool { return hasCode(err, ErrCodeClosed) }

// StatusCodeOf returns the StatusCode of a TransportError in err's chain,
// or 0 if there is none.
func StatusCodeOf(err error) int {
	if e, ok := AsTransportError(err); ok {
		return e.StatusCode
	}
	return 0
}
