// Package httpclient is a single-attempt HTTP transport engine. Every call,
// whatever way it ends, is reduced to an Outcome: a success value or a
// *TransportError carrying status, body, headers and cause.
//
// The engine offers four operations, each with an Async form returning a
// *Future that runs the same code path on its own goroutine:
//
//   - Send: raw text; non-2xx responses fail with ErrCodeStatus
//   - Send245: any response is a StatusPartition; only missing responses fail
//   - SendTyped: model in, model out through a Codec (JSON by default)
//   - SendStatusOnly: model in, StatusDescription out
//
// Calls that never got a response fail with StatusCode SentinelStatus (504).
// Validation and encoding failures happen before any network activity and
// carry StatusCode 0.
//
// Subpackages project outcomes into three calling styles:
//
//   - rest: (T, error)
//   - optional: a value that may be absent and carries the error
//   - logged: a value that may be absent; failures go to an error log
//
// # Basic Usage
//
//	e, err := httpclient.New(httpclient.Config{DefaultTimeoutSeconds: 30})
//
//	out := e.Send(ctx, httpclient.NewRequest(http.MethodGet, "https://api.example.com/users/123",
//	    httpclient.WithHeader("Accept", "application/json"),
//	))
//	body, err := out.Get()
//
// # Typed Calls
//
//	out := httpclient.SendTyped[CreateUser, User](ctx, e,
//	    httpclient.NewTypedRequest(http.MethodPost, url, CreateUser{Name: "Alice"}))
//
// # Shared Engine
//
//	httpclient.Init(cfg)           // optional, before first use
//	e := httpclient.Shared()
//	defer httpclient.Shutdown()    // idempotent; later calls fail fast
package httpclient
