package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/testutil/mockserver"
)

// Lifecycle is anything that can be started and shut down, such as a
// bootstrap.App.
type Lifecycle interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// CleanupFunc is a function that performs cleanup, typically shutting down a
// lifecycle.
type CleanupFunc func() error

// Setup starts l and returns a cleanup function that shuts it down.
func Setup(l Lifecycle) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), l)
}

// SetupWithContext starts l with ctx and returns a cleanup function.
func SetupWithContext(ctx context.Context, l Lifecycle) (CleanupFunc, error) {
	if err := l.Start(ctx); err != nil {
		return nil, err
	}
	return func() error {
		return l.Shutdown(ctx)
	}, nil
}

// Engine creates an engine with a no-op logger and closes it when the test
// ends. Invalid configs fail the test.
func Engine(t testing.TB, cfg httpclient.Config, opts ...httpclient.Option) *httpclient.Engine {
	t.Helper()
	opts = append([]httpclient.Option{httpclient.WithLogger(logger.NewNop())}, opts...)
	e, err := httpclient.New(cfg, opts...)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	t.Cleanup(func() {
		if err := e.Close(); err != nil {
			t.Errorf("failed to close engine: %v", err)
		}
	})
	return e
}

// Server starts a mock server that is closed when the test ends.
func Server(t testing.TB) *mockserver.Server {
	t.Helper()
	srv := mockserver.New()
	t.Cleanup(srv.Close)
	return srv
}

// THelper provides testing.T integration for lifecycles.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps a testing.TB to provide helper methods.
func T(t testing.TB) *THelper {
	return &THelper{
		t:   t,
		ctx: context.Background(),
	}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts l and registers its shutdown with t.Cleanup.
func (h *THelper) Setup(l Lifecycle) {
	h.t.Helper()
	if err := l.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start: %v", err)
	}
	h.t.Cleanup(func() {
		if err := l.Shutdown(h.ctx); err != nil {
			h.t.Errorf("failed to shut down: %v", err)
		}
	})
}
