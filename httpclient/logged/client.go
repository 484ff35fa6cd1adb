package logged

import (
	"context"
	"net/http"

	"github.com/kbukum/httpkit/httpclient"
)

// Client binds the facade to an engine and an error log.
type Client struct {
	engine   *httpclient.Engine
	errorLog ErrorLog
}

// Option configures a Client.
type Option func(*Client)

// WithErrorLog sets where failures are recorded. Defaults to LoggerErrorLog
// on the "httpclient.logged" logger.
func WithErrorLog(l ErrorLog) Option {
	return func(c *Client) { c.errorLog = l }
}

// New creates a client bound to e.
func New(e *httpclient.Engine, opts ...Option) *Client {
	c := &Client{engine: e}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default creates a client that resolves the shared engine on every call.
func Default(opts ...Option) *Client {
	return New(nil, opts...)
}

// Engine returns the engine used for the next call.
func (c *Client) Engine() *httpclient.Engine {
	if c == nil || c.engine == nil {
		return httpclient.Shared()
	}
	return c.engine
}

// record reports a failure; a panicking error log is ignored.
func (c *Client) record(err error, call string) {
	defer func() { _ = recover() }()
	var l ErrorLog = LoggerErrorLog{}
	if c != nil && c.errorLog != nil {
		l = c.errorLog
	}
	l.Record(err, call)
}

func text(ctx context.Context, c *Client, method, url, body, contentType string, opts []httpclient.RequestOption) Result[string] {
	req := httpclient.NewRequest(method, url, opts...)
	req.Body, req.ContentType = body, contentType
	return project(c, method, url, c.Engine().Send(ctx, req))
}

func typed[Req, Resp any](ctx context.Context, c *Client, method, url string, model Req, opts []httpclient.RequestOption) Result[Resp] {
	return project(c, method, url, httpclient.SendTyped[Req, Resp](ctx, c.Engine(), httpclient.NewTypedRequest(method, url, model, opts...)))
}

func status[Req any](ctx context.Context, c *Client, method, url string, model Req, opts []httpclient.RequestOption) Result[httpclient.StatusDescription] {
	return project(c, method, url, httpclient.SendStatusOnly(ctx, c.Engine(), httpclient.NewTypedRequest(method, url, model, opts...)))
}

// GetText performs a GET and returns the body.
func GetText(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Result[string] {
	return text(ctx, c, http.MethodGet, url, "", "", opts)
}

// PostText performs a POST with a raw body and returns the response body.
func PostText(ctx context.Context, c *Client, url, body, contentType string, opts ...httpclient.RequestOption) Result[string] {
	return text(ctx, c, http.MethodPost, url, body, contentType, opts)
}

// PutText performs a PUT with a raw body and returns the response body.
func PutText(ctx context.Context, c *Client, url, body, contentType string, opts ...httpclient.RequestOption) Result[string] {
	return text(ctx, c, http.MethodPut, url, body, contentType, opts)
}

// PatchText performs a PATCH with a raw body and returns the response body.
func PatchText(ctx context.Context, c *Client, url, body, contentType string, opts ...httpclient.RequestOption) Result[string] {
	return text(ctx, c, http.MethodPatch, url, body, contentType, opts)
}

// DeleteText performs a DELETE and returns the body.
func DeleteText(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Result[string] {
	return text(ctx, c, http.MethodDelete, url, "", "", opts)
}

// GetJSON performs a GET and decodes the response into Resp.
func GetJSON[Resp any](ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Result[Resp] {
	return typed[any, Resp](ctx, c, http.MethodGet, url, nil, opts)
}

// PostJSON performs a POST with an encoded model and decodes the response into Resp.
func PostJSON[Req, Resp any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Result[Resp] {
	return typed[Req, Resp](ctx, c, http.MethodPost, url, model, opts)
}

// PutJSON performs a PUT with an encoded model and decodes the response into Resp.
func PutJSON[Req, Resp any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Result[Resp] {
	return typed[Req, Resp](ctx, c, http.MethodPut, url, model, opts)
}

// PatchJSON performs a PATCH with an encoded model and decodes the response into Resp.
func PatchJSON[Req, Resp any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Result[Resp] {
	return typed[Req, Resp](ctx, c, http.MethodPatch, url, model, opts)
}

// DeleteJSON performs a DELETE and decodes the response into Resp.
func DeleteJSON[Resp any](ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Result[Resp] {
	return typed[any, Resp](ctx, c, http.MethodDelete, url, nil, opts)
}

// GetStatus performs a GET and returns the final status.
func GetStatus(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Result[httpclient.StatusDescription] {
	return status[any](ctx, c, http.MethodGet, url, nil, opts)
}

// PostStatus performs a POST with an encoded model and returns the final status.
func PostStatus[Req any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Result[httpclient.StatusDescription] {
	return status(ctx, c, http.MethodPost, url, model, opts)
}

// PutStatus performs a PUT with an encoded model and returns the final status.
func PutStatus[Req any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Result[httpclient.StatusDescription] {
	return status(ctx, c, http.MethodPut, url, model, opts)
}

// PatchStatus performs a PATCH with an encoded model and returns the final status.
func PatchStatus[Req any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Result[httpclient.StatusDescription] {
	return status(ctx, c, http.MethodPatch, url, model, opts)
}

// DeleteStatus performs a DELETE and returns the final status.
func DeleteStatus(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Result[httpclient.StatusDescription] {
	return status[any](ctx, c, http.MethodDelete, url, nil, opts)
}

// Exchange performs a call in 245 mode: any response is a present
// StatusPartition and only calls without a response are recorded.
func Exchange(ctx context.Context, c *Client, method, url, body, contentType string, opts ...httpclient.RequestOption) Result[httpclient.StatusPartition] {
	req := httpclient.NewRequest(method, url, opts...)
	req.Body, req.ContentType = body, contentType
	return project(c, method, url, c.Engine().Send245(ctx, req))
}
