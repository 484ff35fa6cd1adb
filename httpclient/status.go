package httpclient

import (
	"net/http"
	"strconv"

	"github.com/tidwall/gjson"
)

// StatusClass is the three-way classification of a status code.
type StatusClass int

const (
	// ClassSuccess covers 200-299.
	ClassSuccess StatusClass = iota
	// ClassClientError covers 300-499.
	ClassClientError
	// ClassServerError covers 500-599 and every code outside [200,599].
	ClassServerError
)

// String returns the class name.
func (c StatusClass) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassClientError:
		return "client_error"
	default:
		return "server_error"
	}
}

// ClassifyStatus maps a status code onto its StatusClass.
func ClassifyStatus(code int) StatusClass {
	switch {
	case code >= 200 && code <= 299:
		return ClassSuccess
	case code >= 300 && code <= 499:
		return ClassClientError
	default:
		return ClassServerError
	}
}

// StatusPartition is the non-exceptional record of any response: 2xx, 4xx
// and 5xx alike.
type StatusPartition struct {
	Headers    []Header
	StatusCode int
	Body       string
}

// Is2xx reports whether the status is in [200,299].
func (p StatusPartition) Is2xx() bool { return p.StatusCode >= 200 && p.StatusCode <= 299 }

// Is4xx reports whether the status is in [400,499].
func (p StatusPartition) Is4xx() bool { return p.StatusCode >= 400 && p.StatusCode <= 499 }

// Is5xx reports whether the status is in [500,599].
func (p StatusPartition) Is5xx() bool { return p.StatusCode >= 500 && p.StatusCode <= 599 }

// Class returns the three-way classification of the status.
func (p StatusPartition) Class() StatusClass { return ClassifyStatus(p.StatusCode) }

// Header returns the first value of a response header (case-insensitive).
func (p StatusPartition) Header(key string) string { return lookupHeader(p.Headers, key) }

// JSON looks up a gjson path in the body, e.g. p.JSON("error.message").
func (p StatusPartition) JSON(path string) gjson.Result { return gjson.Get(p.Body, path) }

// StatusDescription describes a final status line.
type StatusDescription struct {
	StatusCode int
	Reason     string
}

func describeStatus(code int, statusLine string) StatusDescription {
	reason := http.StatusText(code)
	// resp.Status is "200 OK"; prefer the server's reason phrase.
	prefix := strconv.Itoa(code) + " "
	if len(statusLine) > len(prefix) && statusLine[:len(prefix)] == prefix {
		reason = statusLine[len(prefix):]
	}
	return StatusDescription{StatusCode: code, Reason: reason}
}

// String renders the status line, e.g. "200 OK".
func (d StatusDescription) String() string {
	if d.Reason == "" {
		return strconv.Itoa(d.StatusCode)
	}
	return strconv.Itoa(d.StatusCode) + " " + d.Reason
}

// Success reports whether the status is 2xx.
func (d StatusDescription) Success() bool {
	return d.StatusCode >= 200 && d.StatusCode <= 299
}
