package httpclient

import (
	"context"
	"net/http"
)

// Doer executes a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DiagnosticsHook observes the raw request and response text of a call.
type DiagnosticsHook func(requestText, responseText string)

// CallOptions is the per-call configuration.
type CallOptions struct {
	// TimeoutSeconds bounds the call. Zero uses Config.DefaultTimeoutSeconds,
	// values above Config.MaxTimeoutSeconds are clamped, negatives are rejected.
	// Ignored when Signal is set.
	TimeoutSeconds int
	// Marshal configures typed request/response encoding.
	Marshal MarshalConfig
	// Client replaces the engine's shared client for this call.
	Client Doer
	// Signal is an external cancellation signal. When set it alone governs
	// cancellation and no internal timer is created.
	Signal context.Context
	// Diagnostics, when set, is invoked once per call after the outcome is known.
	Diagnostics DiagnosticsHook
	// RetrieveStatusInsteadOfBody makes a successful text call return the
	// status line instead of the body.
	RetrieveStatusInsteadOfBody bool
	// Auth overrides the engine-level auth for this call.
	Auth *AuthConfig
}

// Request describes one raw-text call.
type Request struct {
	// Method is GET, POST, PUT, PATCH or DELETE.
	Method string
	// URL is the absolute target URL.
	URL string
	// Body is sent for POST, PUT and PATCH only.
	Body string
	// ContentType is set on the request when a body is attached.
	ContentType string
	// Headers are attached verbatim after the engine's default headers.
	Headers []Header
	// Query are URL query parameters merged into URL.
	Query map[string]string
	// Options are the call options.
	Options CallOptions

	// err is the first option failure, reported before any network activity.
	err error
	// encodeErr is a typed model serialization failure.
	encodeErr error
}

// TypedRequest describes a call whose body is a model encoded with the
// configured codec.
type TypedRequest[T any] struct {
	Method  string
	URL     string
	Model   T
	Headers []Header
	Query   map[string]string
	Options CallOptions

	err error
}

// RequestOption configures a single request.
type RequestOption func(*Request)

// NewRequest creates a raw-text request.
func NewRequest(method, url string, opts ...RequestOption) Request {
	req := Request{Method: method, URL: url}
	for _, opt := range opts {
		opt(&req)
	}
	return req
}

// NewTypedRequest creates a typed request. WithBody has no effect on it.
func NewTypedRequest[T any](method, url string, model T, opts ...RequestOption) TypedRequest[T] {
	scratch := NewRequest(method, url, opts...)
	return TypedRequest[T]{
		Method:  method,
		URL:     url,
		Model:   model,
		Headers: scratch.Headers,
		Query:   scratch.Query,
		Options: scratch.Options,
		err:     scratch.err,
	}
}

func (r *Request) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// WithHeader validates and adds a header. An invalid header fails the call
// before it is sent.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		h, err := NewHeader(key, value)
		if err != nil {
			r.fail(err)
			return
		}
		r.Headers = append(r.Headers, h)
	}
}

// WithHeaders adds already constructed headers.
func WithHeaders(headers ...Header) RequestOption {
	return func(r *Request) {
		r.Headers = append(r.Headers, headers...)
	}
}

// WithQuery adds a query parameter.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.Query == nil {
			r.Query = make(map[string]string)
		}
		r.Query[key] = value
	}
}

// WithBody sets the raw body and its content type.
func WithBody(body, contentType string) RequestOption {
	return func(r *Request) {
		r.Body = body
		r.ContentType = contentType
	}
}

// WithTimeout sets the call timeout in seconds.
func WithTimeout(seconds int) RequestOption {
	return func(r *Request) {
		r.Options.TimeoutSeconds = seconds
	}
}

// WithCodec selects the codec for typed calls.
func WithCodec(c Codec) RequestOption {
	return func(r *Request) {
		r.Options.Marshal.Codec = c
	}
}

// WithMarshal replaces the whole marshal configuration.
func WithMarshal(m MarshalConfig) RequestOption {
	return func(r *Request) {
		r.Options.Marshal = m
	}
}

// WithClient sends the call through an externally supplied client.
func WithClient(d Doer) RequestOption {
	return func(r *Request) {
		r.Options.Client = d
	}
}

// WithSignal makes signal the only cancellation source of the call.
func WithSignal(signal context.Context) RequestOption {
	return func(r *Request) {
		r.Options.Signal = signal
	}
}

// WithDiagnostics sets the diagnostics hook.
func WithDiagnostics(hook DiagnosticsHook) RequestOption {
	return func(r *Request) {
		r.Options.Diagnostics = hook
	}
}

// WithStatusLine makes a successful text call return the status line.
func WithStatusLine() RequestOption {
	return func(r *Request) {
		r.Options.RetrieveStatusInsteadOfBody = true
	}
}

// WithAuth overrides authentication for the request.
func WithAuth(auth *AuthConfig) RequestOption {
	return func(r *Request) {
		r.Options.Auth = auth
	}
}
