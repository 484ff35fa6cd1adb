// Package testutil provides test wiring for httpkit: engines and mock servers
// that clean themselves up when the test ends, plus a helper for anything
// with a Start/Shutdown lifecycle.
//
// # Quick Start
//
//	func TestCall(t *testing.T) {
//	    srv := testutil.Server(t)
//	    e := testutil.Engine(t, httpclient.Config{DefaultTimeoutSeconds: 5})
//	    out := e.Send(ctx, httpclient.NewRequest(http.MethodGet, srv.URL("/json")))
//	}
//
// Lifecycles:
//
//	testutil.T(t).Setup(app) // app.Shutdown runs on t.Cleanup
//
// The mock server itself lives in testutil/mockserver.
package testutil
