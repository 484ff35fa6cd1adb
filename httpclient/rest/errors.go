package rest

import (
	"net/http"

	"github.com/kbukum/httpkit/httpclient"
)

// Error helpers over *httpclient.TransportError so facade users don't need
// to import httpclient for error checking.

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return httpclient.IsStatus(err) && httpclient.StatusCodeOf(err) == http.StatusNotFound
}

// IsAuth checks if the error is a 401 or 403 response.
func IsAuth(err error) bool {
	code := httpclient.StatusCodeOf(err)
	return httpclient.IsStatus(err) && (code == http.StatusUnauthorized || code == http.StatusForbidden)
}

// IsServerError checks if the error is a 5xx response.
func IsServerError(err error) bool {
	code := httpclient.StatusCodeOf(err)
	return httpclient.IsStatus(err) && code >= 500 && code <= 599
}

// IsTimeout checks if the error is a call timeout.
func IsTimeout(err error) bool { return httpclient.IsTimeout(err) }

// IsNoResponse checks if the call failed without any HTTP response.
func IsNoResponse(err error) bool {
	return httpclient.IsConnection(err) || httpclient.IsTimeout(err) ||
		httpclient.IsCanceled(err) || httpclient.IsClosed(err)
}
