package optional

import (
	"context"
	"net/http"

	"github.com/kbukum/httpkit/httpclient"
)

// Client binds the facade to an engine.
type Client struct {
	engine *httpclient.Engine
}

// New creates a client bound to e.
func New(e *httpclient.Engine) *Client {
	return &Client{engine: e}
}

// Default creates a client that resolves the shared engine on every call.
func Default() *Client {
	return &Client{}
}

// Engine returns the engine used for the next call.
func (c *Client) Engine() *httpclient.Engine {
	if c == nil || c.engine == nil {
		return httpclient.Shared()
	}
	return c.engine
}

func text(ctx context.Context, c *Client, method, url, body, contentType string, opts []httpclient.RequestOption) Value[string] {
	req := httpclient.NewRequest(method, url, opts...)
	req.Body, req.ContentType = body, contentType
	return fromOutcome(c.Engine().Send(ctx, req))
}

func typed[Req, Resp any](ctx context.Context, c *Client, method, url string, model Req, opts []httpclient.RequestOption) Value[Resp] {
	return fromOutcome(httpclient.SendTyped[Req, Resp](ctx, c.Engine(), httpclient.NewTypedRequest(method, url, model, opts...)))
}

func status[Req any](ctx context.Context, c *Client, method, url string, model Req, opts []httpclient.RequestOption) Value[httpclient.StatusDescription] {
	return fromOutcome(httpclient.SendStatusOnly(ctx, c.Engine(), httpclient.NewTypedRequest(method, url, model, opts...)))
}

// GetText performs a GET and returns the body.
func GetText(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Value[string] {
	return text(ctx, c, http.MethodGet, url, "", "", opts)
}

// PostText performs a POST with a raw body and returns the response body.
func PostText(ctx context.Context, c *Client, url, body, contentType string, opts ...httpclient.RequestOption) Value[string] {
	return text(ctx, c, http.MethodPost, url, body, contentType, opts)
}

// PutText performs a PUT with a raw body and returns the response body.
func PutText(ctx context.Context, c *Client, url, body, contentType string, opts ...httpclient.RequestOption) Value[string] {
	return text(ctx, c, http.MethodPut, url, body, contentType, opts)
}

// PatchText performs a PATCH with a raw body and returns the response body.
func PatchText(ctx context.Context, c *Client, url, body, contentType string, opts ...httpclient.RequestOption) Value[string] {
	return text(ctx, c, http.MethodPatch, url, body, contentType, opts)
}

// DeleteText performs a DELETE and returns the body.
func DeleteText(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Value[string] {
	return text(ctx, c, http.MethodDelete, url, "", "", opts)
}

// GetJSON performs a GET and decodes the response into Resp.
func GetJSON[Resp any](ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Value[Resp] {
	return typed[any, Resp](ctx, c, http.MethodGet, url, nil, opts)
}

// PostJSON performs a POST with an encoded model and decodes the response into Resp.
func PostJSON[Req, Resp any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Value[Resp] {
	return typed[Req, Resp](ctx, c, http.MethodPost, url, model, opts)
}

// PutJSON performs a PUT with an encoded model and decodes the response into Resp.
func PutJSON[Req, Resp any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Value[Resp] {
	return typed[Req, Resp](ctx, c, http.MethodPut, url, model, opts)
}

// PatchJSON performs a PATCH with an encoded model and decodes the response into Resp.
func PatchJSON[Req, Resp any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Value[Resp] {
	return typed[Req, Resp](ctx, c, http.MethodPatch, url, model, opts)
}

// DeleteJSON performs a DELETE and decodes the response into Resp.
func DeleteJSON[Resp any](ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Value[Resp] {
	return typed[any, Resp](ctx, c, http.MethodDelete, url, nil, opts)
}

// GetStatus performs a GET and returns the final status.
func GetStatus(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Value[httpclient.StatusDescription] {
	return status[any](ctx, c, http.MethodGet, url, nil, opts)
}

// PostStatus performs a POST with an encoded model and returns the final status.
func PostStatus[Req any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Value[httpclient.StatusDescription] {
	return status(ctx, c, http.MethodPost, url, model, opts)
}

// PutStatus performs a PUT with an encoded model and returns the final status.
func PutStatus[Req any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Value[httpclient.StatusDescription] {
	return status(ctx, c, http.MethodPut, url, model, opts)
}

// PatchStatus performs a PATCH with an encoded model and returns the final status.
func PatchStatus[Req any](ctx context.Context, c *Client, url string, model Req, opts ...httpclient.RequestOption) Value[httpclient.StatusDescription] {
	return status(ctx, c, http.MethodPatch, url, model, opts)
}

// DeleteStatus performs a DELETE and returns the final status.
func DeleteStatus(ctx context.Context, c *Client, url string, opts ...httpclient.RequestOption) Value[httpclient.StatusDescription] {
	return status[any](ctx, c, http.MethodDelete, url, nil, opts)
}

// Exchange performs a call in 245 mode: any response is a present
// StatusPartition and only calls without a response are absent.
func Exchange(ctx context.Context, c *Client, method, url, body, contentType string, opts ...httpclient.RequestOption) Value[httpclient.StatusPartition] {
	req := httpclient.NewRequest(method, url, opts...)
	req.Body, req.ContentType = body, contentType
	return fromOutcome(c.Engine().Send245(ctx, req))
}
