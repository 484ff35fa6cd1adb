package httpclient

import (
	"context"
	"reflect"
	"strings"
)

// Send issues a raw-text call. A 2xx response yields the body, or the status
// line when RetrieveStatusInsteadOfBody is set; any other status yields an
// ErrCodeStatus error carrying status, body and headers.
func (e *Engine) Send(ctx context.Context, req Request) Outcome[string] {
	return execute(ctx, e, req, func(x exchange) Outcome[string] {
		if !x.success() {
			return Failure[string](x.statusError())
		}
		if req.Options.RetrieveStatusInsteadOfBody {
			return Success(describeStatus(x.status, x.statusLine).String())
		}
		return Success(x.body)
	})
}

// SendAsync runs Send on its own goroutine.
func (e *Engine) SendAsync(ctx context.Context, req Request) *Future[string] {
	return goFuture(func() Outcome[string] { return e.Send(ctx, req) })
}

// Send245 issues a call that never classifies the status: every response,
// 2xx, 4xx or 5xx, is a successful StatusPartition. Only calls that got no
// response fail.
func (e *Engine) Send245(ctx context.Context, req Request) Outcome[StatusPartition] {
	return execute(ctx, e, req, func(x exchange) Outcome[StatusPartition] {
		return Success(StatusPartition{
			Headers:    x.headers,
			StatusCode: x.status,
			Body:       x.body,
		})
	})
}

// Send245Async runs Send245 on its own goroutine.
func (e *Engine) Send245Async(ctx context.Context, req Request) *Future[StatusPartition] {
	return goFuture(func() Outcome[StatusPartition] { return e.Send245(ctx, req) })
}

// SendTyped encodes the model with the configured codec, issues the call and
// decodes a 2xx body into Resp. Encoding failures never reach the network;
// decoding failures fail the call despite the 2xx status. An empty body
// decodes to the zero value.
func SendTyped[Req, Resp any](ctx context.Context, e *Engine, req TypedRequest[Req]) Outcome[Resp] {
	raw := encodeTyped(req)
	marshal := req.Options.Marshal
	return execute(ctx, e, raw, func(x exchange) Outcome[Resp] {
		var out Resp
		if !x.success() {
			return Failure[Resp](x.statusError())
		}
		if strings.TrimSpace(x.body) == "" {
			return Success(out)
		}
		if err := marshal.codec().Unmarshal([]byte(x.body), &out, marshal); err != nil {
			return Failure[Resp](newDeserializationError(x.method, x.url, x.status, x.body, x.headers, err))
		}
		return Success(out)
	})
}

// SendTypedAsync runs SendTyped on its own goroutine.
func SendTypedAsync[Req, Resp any](ctx context.Context, e *Engine, req TypedRequest[Req]) *Future[Resp] {
	return goFuture(func() Outcome[Resp] { return SendTyped[Req, Resp](ctx, e, req) })
}

// SendStatusOnly is SendTyped without a response model: a 2xx response
// yields its status description.
func SendStatusOnly[Req any](ctx context.Context, e *Engine, req TypedRequest[Req]) Outcome[StatusDescription] {
	return execute(ctx, e, encodeTyped(req), func(x exchange) Outcome[StatusDescription] {
		if !x.success() {
			return Failure[StatusDescription](x.statusError())
		}
		return Success(describeStatus(x.status, x.statusLine))
	})
}

// SendStatusOnlyAsync runs SendStatusOnly on its own goroutine.
func SendStatusOnlyAsync[Req any](ctx context.Context, e *Engine, req TypedRequest[Req]) *Future[StatusDescription] {
	return goFuture(func() Outcome[StatusDescription] { return SendStatusOnly(ctx, e, req) })
}

// encodeTyped lowers a typed request to a raw one. Verbs without a body and
// nil models send no body.
func encodeTyped[T any](req TypedRequest[T]) Request {
	codec := req.Options.Marshal.codec()
	raw := Request{
		Method:      req.Method,
		URL:         req.URL,
		ContentType: codec.ContentType(),
		Headers:     req.Headers,
		Query:       req.Query,
		Options:     req.Options,
		err:         req.err,
	}
	if !bodyVerbs[strings.ToUpper(req.Method)] || isNilModel(req.Model) {
		return raw
	}
	data, err := codec.Marshal(req.Model, req.Options.Marshal)
	if err != nil {
		raw.encodeErr = err
		return raw
	}
	raw.Body = string(data)
	return raw
}

func isNilModel(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
