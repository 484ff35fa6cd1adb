package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/testutil/mockserver"
	"github.com/kbukum/httpkit/version"
)

func newTestEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewNop())}, opts...)
	e, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

type widget struct {
	ID    int      `json:"id"`
	Name  string   `json:"name"`
	Tags  []string `json:"tags"`
	Price float64  `json:"price"`
}

func TestSendSuccess(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	body, err := e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/json"))).Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != `{"ok":true}` {
		t.Errorf("expected body, got %q", body)
	}
}

func TestSendNon2xx(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", 404, "not found"},
		{"bad request", 400, "bad"},
		{"server error", 500, "oops"},
		{"unavailable", 503, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := srv.URL("/status/" + strconv.Itoa(tt.status) + "?body=" + url.QueryEscape(tt.body))
			out := e.Send(context.Background(), NewRequest(http.MethodGet, target))
			if out.IsSuccess() {
				t.Fatal("expected failure")
			}
			terr := out.Err()
			if terr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, terr.StatusCode)
			}
			if terr.Body != tt.body {
				t.Errorf("expected body %q, got %q", tt.body, terr.Body)
			}
			if terr.Code != ErrCodeStatus || terr.Cause != nil {
				t.Errorf("expected status error without cause, got %s / %v", terr.Code, terr.Cause)
			}
			if terr.Header("X-Mock-Status") != strconv.Itoa(tt.status) {
				t.Errorf("response headers not captured: %+v", terr.Headers)
			}
			if !strings.Contains(terr.Message, "GET") || !strings.Contains(terr.Message, target) {
				t.Errorf("message should name verb and URL: %q", terr.Message)
			}
		})
	}
}

func TestSendStatusLine(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	got := e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/json"), WithStatusLine())).OrElse("")
	if got != "200 OK" {
		t.Errorf("expected status line, got %q", got)
	}
}

func TestSend245(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	for _, status := range []int{200, 201, 404, 422, 500, 503} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			out := e.Send245(context.Background(), NewRequest(http.MethodGet, srv.URL("/status/"+strconv.Itoa(status)+"?body=b")))
			p, ok := out.Value()
			if !ok {
				t.Fatalf("245 mode should never fail on a response: %v", out.Err())
			}
			if p.StatusCode != status || p.Body != "b" {
				t.Errorf("got %d %q", p.StatusCode, p.Body)
			}
			if p.Header("X-Mock-Status") != strconv.Itoa(status) {
				t.Errorf("headers = %+v", p.Headers)
			}
		})
	}
}

func TestSend245ConnectionFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	e := newTestEngine(t, Config{})
	out := e.Send245(context.Background(), NewRequest(http.MethodGet, deadURL))
	terr := out.Err()
	if terr == nil {
		t.Fatal("expected failure without a response")
	}
	if terr.StatusCode != SentinelStatus || terr.Code != ErrCodeConnection {
		t.Errorf("expected sentinel connection error, got %d %s", terr.StatusCode, terr.Code)
	}
	if terr.Cause == nil || terr.Body != "" || len(terr.Headers) != 0 {
		t.Errorf("unexpected error shape: %+v", terr)
	}
}

func TestSendTypedRoundTrip(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	models := []widget{
		{ID: 1, Name: "bolt", Tags: []string{"steel"}, Price: 0.25},
		{ID: 2, Name: "unicode ✓", Tags: []string{}, Price: 1e6},
		{},
	}
	for _, verb := range []string{http.MethodPost, http.MethodPut, http.MethodPatch} {
		for _, m := range models {
			got, err := SendTyped[widget, widget](context.Background(), e, NewTypedRequest(verb, srv.URL("/echo"), m)).Get()
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", verb, err)
			}
			if got.ID != m.ID || got.Name != m.Name || got.Price != m.Price || len(got.Tags) != len(m.Tags) {
				t.Errorf("%s: round trip = %+v, want %+v", verb, got, m)
			}
		}
	}

	last, _ := srv.LastRequest()
	if ct := last.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("typed calls should send JSON, got %q", ct)
	}
}

func TestSendTypedYAMLRoundTrip(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	in := codecModel{Name: "yaml", Count: 9}
	got, err := SendTyped[codecModel, codecModel](context.Background(), e,
		NewTypedRequest(http.MethodPost, srv.URL("/echo"), in, WithCodec(YAMLCodec))).Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != in {
		t.Errorf("got %+v", got)
	}
}

func TestSendTypedDeserializationFailure(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	out := SendTyped[any, widget](context.Background(), e, NewTypedRequest[any](http.MethodGet, srv.URL("/status/200?body=notjson"), nil))
	terr := out.Err()
	if terr == nil {
		t.Fatal("expected deserialization failure")
	}
	if !IsDeserialization(terr) || terr.StatusCode != 200 || terr.Body != "notjson" || terr.Cause == nil {
		t.Errorf("unexpected error: %+v", terr)
	}
}

func TestSendTypedEmptyBody(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	got, err := SendTyped[any, widget](context.Background(), e, NewTypedRequest[any](http.MethodDelete, srv.URL("/status/204"), nil)).Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 0 || got.Name != "" {
		t.Errorf("expected zero value, got %+v", got)
	}
}

func TestSendTypedSerializationFailure(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	var hookCalls atomic.Int32
	model := map[string]any{"ch": make(chan int)}
	out := SendTyped[map[string]any, widget](context.Background(), e,
		NewTypedRequest(http.MethodPost, srv.URL("/echo"), model, WithDiagnostics(func(req, resp string) {
			hookCalls.Add(1)
			if req != "" || resp != "" {
				t.Errorf("hook should see empty texts, got %q %q", req, resp)
			}
		})))

	if !IsSerialization(out.Err()) {
		t.Fatalf("expected serialization error, got %v", out.Err())
	}
	if out.Err().StatusCode != 0 {
		t.Errorf("serialization errors carry no status, got %d", out.Err().StatusCode)
	}
	if srv.Hits("/echo") != 0 {
		t.Error("serialization failure must not reach the network")
	}
	if hookCalls.Load() != 1 {
		t.Errorf("expected hook once, got %d", hookCalls.Load())
	}
}

func TestSendStatusOnly(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	d, err := SendStatusOnly(context.Background(), e, NewTypedRequest(http.MethodPost, srv.URL("/status/201?body=ignored"), widget{ID: 1})).Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.StatusCode != 201 || d.String() != "201 Created" || !d.Success() {
		t.Errorf("got %+v", d)
	}

	_, err = SendStatusOnly(context.Background(), e, NewTypedRequest(http.MethodPut, srv.URL("/status/409"), widget{})).Get()
	if StatusCodeOf(err) != 409 {
		t.Errorf("expected 409 error, got %v", err)
	}
}

func TestTimeout(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	start := time.Now()
	out := e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/slow"), WithTimeout(1)))
	elapsed := time.Since(start)

	terr := out.Err()
	if terr == nil {
		t.Fatal("expected timeout")
	}
	if terr.StatusCode != SentinelStatus || !IsTimeout(terr) {
		t.Errorf("expected sentinel timeout, got %d %s", terr.StatusCode, terr.Code)
	}
	if !errors.Is(terr, ErrTimeout) {
		t.Errorf("cause should wrap ErrTimeout: %v", terr.Cause)
	}
	if elapsed < 900*time.Millisecond || elapsed > 5*time.Second {
		t.Errorf("timeout took %v", elapsed)
	}
}

func TestSignalCancellation(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	signal, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)

	start := time.Now()
	out := e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/slow"), WithSignal(signal), WithTimeout(1)))
	if !IsCanceled(out.Err()) {
		t.Fatalf("expected canceled, got %v", out.Err())
	}
	if out.Err().StatusCode != SentinelStatus {
		t.Errorf("expected sentinel, got %d", out.Err().StatusCode)
	}
	if time.Since(start) > 900*time.Millisecond {
		t.Error("signal should cancel before any internal timer")
	}
}

func TestSignalOverridesCallerCancellation(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	body, err := e.Send(ctx, NewRequest(http.MethodGet, srv.URL("/json"), WithSignal(context.Background()))).Get()
	if err != nil || body != `{"ok":true}` {
		t.Errorf("external signal alone governs cancellation: %q %v", body, err)
	}
}

func TestCallerContextCanceled(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(50*time.Millisecond, cancel)
	out := e.Send(ctx, NewRequest(http.MethodGet, srv.URL("/slow")))
	if !IsCanceled(out.Err()) {
		t.Errorf("expected canceled, got %v", out.Err())
	}
}

func TestDiagnosticsHook(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	var mu sync.Mutex
	var calls [][2]string
	hook := func(req, resp string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, [2]string{req, resp})
	}

	out := e.Send(context.Background(), NewRequest(http.MethodPost, srv.URL("/json"),
		WithBody("{}", "application/json"), WithDiagnostics(hook)))
	if !out.IsSuccess() {
		t.Fatalf("unexpected error: %v", out.Err())
	}
	if len(calls) != 1 {
		t.Fatalf("expected hook once, got %d", len(calls))
	}
	if calls[0][0] != "{}" || calls[0][1] != `{"ok":true}` {
		t.Errorf("hook got %q / %q", calls[0][0], calls[0][1])
	}
}

func TestDiagnosticsHookOnFailureAndPanic(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	var seen string
	out := e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/status/404?body=not%20found"),
		WithDiagnostics(func(_, resp string) {
			seen = resp
			panic("hook failure")
		})))
	if seen != "not found" {
		t.Errorf("hook should see the error body, got %q", seen)
	}
	if StatusCodeOf(out.Err()) != 404 {
		t.Errorf("panicking hook must not change the outcome: %v", out.Err())
	}
}

func TestHeaderValidationBeforeNetwork(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	tests := []struct {
		name string
		req  Request
	}{
		{"empty key option", NewRequest(http.MethodGet, srv.URL("/json"), WithHeader("", "v"))},
		{"empty value option", NewRequest(http.MethodGet, srv.URL("/json"), WithHeader("X-Key", ""))},
		{"literal header", Request{Method: http.MethodGet, URL: srv.URL("/json"), Headers: []Header{{Key: "X-Key"}}}},
		{"unsupported verb", NewRequest("TRACE", srv.URL("/json"))},
		{"negative timeout", NewRequest(http.MethodGet, srv.URL("/json"), WithTimeout(-1))},
		{"missing url", NewRequest(http.MethodGet, "")},
		{"malformed url", NewRequest(http.MethodGet, "http://[::1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terr := e.Send(context.Background(), tt.req).Err()
			if !IsValidation(terr) {
				t.Fatalf("expected validation error, got %v", terr)
			}
			if terr.StatusCode != 0 {
				t.Errorf("validation errors carry no status, got %d", terr.StatusCode)
			}
		})
	}
	if n := len(srv.Requests()); n != 0 {
		t.Errorf("no request should reach the server, got %d", n)
	}
}

func TestBodyOnlyForBodyVerbs(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	tests := []struct {
		method   string
		wantBody string
	}{
		{http.MethodGet, ""},
		{http.MethodDelete, ""},
		{http.MethodPost, "payload"},
		{http.MethodPut, "payload"},
		{http.MethodPatch, "payload"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			e.Send(context.Background(), NewRequest(tt.method, srv.URL("/echo"), WithBody("payload", "text/plain")))
			last, ok := srv.LastRequest()
			if !ok {
				t.Fatal("no request recorded")
			}
			if last.Method != tt.method || last.Body != tt.wantBody {
				t.Errorf("got %s %q", last.Method, last.Body)
			}
			if tt.wantBody != "" && last.Header.Get("Content-Type") != "text/plain" {
				t.Errorf("content type = %q", last.Header.Get("Content-Type"))
			}
		})
	}
}

func TestRequestHeaders(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{Headers: map[string]string{"X-Team": "payments", "X-Env": "test"}})

	e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/headers"),
		WithHeader("X-Env", "override"),
		WithHeader("X-Multi", "a"),
		WithHeader("X-Multi", "b"),
		WithQuery("page", "2"),
		WithAuth(BearerAuth("tok")),
	))

	last, _ := srv.LastRequest()
	if last.Header.Get("User-Agent") != version.UserAgent() {
		t.Errorf("user agent = %q", last.Header.Get("User-Agent"))
	}
	if last.Header.Get("X-Team") != "payments" || last.Header.Get("X-Env") != "override" {
		t.Errorf("default/override headers wrong: %v", last.Header)
	}
	if got := last.Header.Values("X-Multi"); len(got) != 2 {
		t.Errorf("repeated request headers should be kept, got %v", got)
	}
	if last.Header.Get("Authorization") != "Bearer tok" {
		t.Errorf("auth not applied: %q", last.Header.Get("Authorization"))
	}
	if last.Query != "page=2" {
		t.Errorf("query = %q", last.Query)
	}
}

func TestCustomUserAgent(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{UserAgent: "billing/1.0"})

	e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/headers")))
	last, _ := srv.LastRequest()
	if last.Header.Get("User-Agent") != "billing/1.0" {
		t.Errorf("user agent = %q", last.Header.Get("User-Agent"))
	}
}

type countingDoer struct {
	calls atomic.Int32
	next  *http.Client
}

func (d *countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return d.next.Do(req)
}

func TestExternalClient(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	doer := &countingDoer{next: &http.Client{}}
	out := e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/json"), WithClient(doer)))
	if !out.IsSuccess() {
		t.Fatalf("unexpected error: %v", out.Err())
	}
	if doer.calls.Load() != 1 {
		t.Errorf("external client should be used once, got %d", doer.calls.Load())
	}
}

func TestAsyncMatchesSync(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})
	ctx := context.Background()

	f := e.SendAsync(ctx, NewRequest(http.MethodGet, srv.URL("/status/404?body=nf")))
	select {
	case <-f.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("future did not complete")
	}
	async := f.Wait()
	direct := e.Send(ctx, NewRequest(http.MethodGet, srv.URL("/status/404?body=nf")))
	if async.Err().StatusCode != direct.Err().StatusCode || async.Err().Body != direct.Err().Body {
		t.Errorf("async %+v differs from sync %+v", async.Err(), direct.Err())
	}

	p := e.Send245Async(ctx, NewRequest(http.MethodGet, srv.URL("/status/500"))).Wait()
	if v, ok := p.Value(); !ok || !v.Is5xx() {
		t.Errorf("Send245Async = %+v", p)
	}

	w := SendTypedAsync[widget, widget](ctx, e, NewTypedRequest(http.MethodPost, srv.URL("/echo"), widget{ID: 5})).Wait()
	if v, _ := w.Value(); v.ID != 5 {
		t.Errorf("SendTypedAsync = %+v", w)
	}

	s := SendStatusOnlyAsync(ctx, e, NewTypedRequest(http.MethodPost, srv.URL("/echo"), widget{ID: 5})).Wait()
	if v, _ := s.Value(); v.StatusCode != 200 {
		t.Errorf("SendStatusOnlyAsync = %+v", s)
	}
}

func TestClosedEngine(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()
	e := newTestEngine(t, Config{})

	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if !e.Closed() {
		t.Error("expected Closed() = true")
	}

	terr := e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/json"))).Err()
	if !IsClosed(terr) || terr.StatusCode != SentinelStatus || !errors.Is(terr, ErrEngineClosed) {
		t.Errorf("expected closed error, got %v", terr)
	}
	if srv.Hits("/json") != 0 {
		t.Error("closed engine must not reach the network")
	}
}

func TestNewInvalidConfig(t *testing.T) {
	_, err := New(Config{DefaultTimeoutSeconds: 100, MaxTimeoutSeconds: 10})
	if err == nil {
		t.Fatal("expected config error")
	}
}

func TestCallSpan(t *testing.T) {
	srv := mockserver.New()
	defer srv.Close()

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	e := newTestEngine(t, Config{}, WithTracerProvider(tp))

	e.Send(context.Background(), NewRequest(http.MethodGet, srv.URL("/status/500")))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "httpkit.GET" {
		t.Errorf("span name = %q", spans[0].Name())
	}
	found := false
	for _, attr := range spans[0].Attributes() {
		if string(attr.Key) == "http.response.status_code" && attr.Value.AsInt64() == 500 {
			found = true
		}
	}
	if !found {
		t.Errorf("status attribute missing: %v", spans[0].Attributes())
	}
}
