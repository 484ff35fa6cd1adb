package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/httpkit/errors"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/observability"
	"github.com/kbukum/httpkit/version"
)

// Engine executes single-attempt HTTP calls and reduces every termination
// into an Outcome. It is safe for concurrent use.
type Engine struct {
	httpClient *http.Client
	config     Config
	log        *logger.Logger
	tracer     trace.Tracer
	metrics    *observability.TransportMetrics
	closed     atomic.Bool
}

type engineOptions struct {
	log            *logger.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	httpClient     *http.Client
}

// Option configures an Engine.
type Option func(*engineOptions)

// WithLogger sets the engine logger. Defaults to the "httpclient" component
// of the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *engineOptions) { o.log = l }
}

// WithTracerProvider sets the provider used for call spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *engineOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the provider used for call metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *engineOptions) { o.meterProvider = mp }
}

// WithHTTPClient replaces the shared client. Its Timeout should be zero;
// calls are bounded by their own cancellation source.
func WithHTTPClient(c *http.Client) Option {
	return func(o *engineOptions) { o.httpClient = c }
}

// New creates a transport engine with the given configuration.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o engineOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("httpclient")
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
		}
	}

	metrics, err := observability.NewTransportMetrics(observability.Meter(o.meterProvider))
	if err != nil {
		return nil, err
	}

	return &Engine{
		httpClient: o.httpClient,
		config:     cfg,
		log:        o.log.WithFields(logger.Fields("engine", cfg.Name)),
		tracer:     observability.Tracer(o.tracerProvider),
		metrics:    metrics,
	}, nil
}

// Config returns the engine configuration with defaults applied.
func (e *Engine) Config() Config {
	return e.config
}

// Close releases idle connections. It is idempotent; afterwards every call
// fails fast with ErrCodeClosed.
func (e *Engine) Close() error {
	if e.closed.Swap(true) {
		return nil
	}
	e.httpClient.CloseIdleConnections()
	e.log.Info("engine closed")
	return nil
}

// Closed reports whether Close was called.
func (e *Engine) Closed() bool {
	return e.closed.Load()
}

// exchange is everything one round trip observed.
type exchange struct {
	method      string
	url         string
	status      int
	statusLine  string
	headers     []Header
	body        string
	requestText string
	err         *TransportError
}

func (x exchange) success() bool {
	return x.status >= 200 && x.status <= 299
}

func (x exchange) statusError() *TransportError {
	return newStatusError(x.method, x.url, x.status, x.body, x.headers)
}

var bodyVerbs = map[string]bool{
	http.MethodPost:  true,
	http.MethodPut:   true,
	http.MethodPatch: true,
}

var supportedVerbs = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// execute is the one code path behind every operation: it performs the round
// trip, projects it, records telemetry and then runs the diagnostics hook.
func execute[T any](ctx context.Context, e *Engine, req Request, project func(exchange) Outcome[T]) Outcome[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	method := strings.ToUpper(req.Method)
	callID := uuid.NewString()
	start := time.Now()

	ctx, span := observability.StartCall(ctx, e.tracer, callID, method, req.URL)
	e.metrics.CallStarted(ctx)

	x := e.roundTrip(ctx, method, req)
	var out Outcome[T]
	if x.err != nil {
		out = Failure[T](x.err)
	} else {
		out = project(x)
	}

	elapsed := time.Since(start)
	result, errCode := "ok", ""
	var failure error
	if terr := out.Err(); terr != nil {
		result, errCode, failure = terr.Code.String(), terr.Code.String(), terr
	}
	observability.EndCall(span, x.status, errCode, failure)
	e.metrics.CallFinished(ctx, method, x.status, result, elapsed)
	e.log.Debug("call finished", logger.MergeWithDuration(logger.Fields(
		logger.FieldCallID, callID,
		logger.FieldMethod, method,
		logger.FieldURL, req.URL,
		logger.FieldStatus, x.status,
		"outcome", result,
	), elapsed))

	if hook := req.Options.Diagnostics; hook != nil {
		e.notify(hook, x.requestText, x.body)
	}
	return out
}

// notify runs the hook; a panicking hook never changes the outcome.
func (e *Engine) notify(hook DiagnosticsHook, requestText, responseText string) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn("diagnostics hook panicked", logger.Fields("panic", fmt.Sprint(r)))
		}
	}()
	hook(requestText, responseText)
}

// roundTrip validates, sends and reads one call. It never returns a status
// classification; projections decide what a status means.
func (e *Engine) roundTrip(ctx context.Context, method string, req Request) exchange {
	x := exchange{method: method, url: req.URL}

	timeout, err := e.validate(method, req)
	if err != nil {
		x.err = newValidationError(method, req.URL, err)
		return x
	}
	if req.encodeErr != nil {
		x.err = newSerializationError(method, req.URL, req.encodeErr)
		return x
	}
	if e.closed.Load() {
		x.err = newNoResponseError(ErrCodeClosed, method, req.URL, ErrEngineClosed)
		return x
	}

	cs := newCancelSource(ctx, req.Options.Signal, timeout)
	defer cs.release()

	httpReq, err := e.buildRequest(cs.ctx, method, req)
	if err != nil {
		x.err = newValidationError(method, req.URL, err)
		return x
	}
	if httpReq.Body != nil {
		x.requestText = req.Body
	}

	client := req.Options.Client
	if client == nil {
		client = e.httpClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		x.err = newNoResponseError(cs.classify(), method, req.URL, cs.cause(err))
		return x
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		x.err = newNoResponseError(cs.classify(), method, req.URL, cs.cause(fmt.Errorf("read response body: %w", err)))
		return x
	}

	x.status = resp.StatusCode
	x.statusLine = resp.Status
	x.headers = flattenHeaders(resp.Header)
	x.body = string(body)
	return x
}

func (e *Engine) validate(method string, req Request) (time.Duration, error) {
	if req.err != nil {
		return 0, req.err
	}
	if !supportedVerbs[method] {
		return 0, apperrors.Unsupported("method", req.Method)
	}
	if req.URL == "" {
		return 0, apperrors.MissingField("url")
	}
	for _, h := range req.Headers {
		if _, err := NewHeader(h.Key, h.Value); err != nil {
			return 0, err
		}
	}
	return e.config.resolveTimeout(req.Options.TimeoutSeconds)
}

// buildRequest constructs an *http.Request from the engine config and request.
func (e *Engine) buildRequest(ctx context.Context, method string, req Request) (*http.Request, error) {
	var body io.Reader
	if bodyVerbs[method] && req.Body != "" {
		body = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, apperrors.InvalidInput("url", err.Error()).WithCause(err)
	}

	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	userAgent := e.config.UserAgent
	if userAgent == "" {
		userAgent = version.UserAgent()
	}
	httpReq.Header.Set("User-Agent", userAgent)

	for k, v := range e.config.Headers {
		httpReq.Header.Set(k, v)
	}

	if body != nil && req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}

	// Request headers replace defaults; repeated keys within the request are kept.
	seen := make(map[string]bool, len(req.Headers))
	for _, h := range req.Headers {
		key := http.CanonicalHeaderKey(h.Key)
		if seen[key] {
			httpReq.Header.Add(key, h.Value)
			continue
		}
		seen[key] = true
		httpReq.Header.Set(key, h.Value)
	}

	auth := e.config.Auth
	if req.Options.Auth != nil {
		auth = req.Options.Auth
	}
	if err := auth.apply(httpReq); err != nil {
		return nil, apperrors.InvalidInput("auth", err.Error()).WithCause(err)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(httpReq.Header))
	return httpReq, nil
}
