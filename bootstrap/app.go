package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/httpkit/config"
	apperrors "github.com/kbukum/httpkit/errors"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
	"github.com/kbukum/httpkit/observability"
	"github.com/kbukum/httpkit/version"
)

// componentLoggers are the named loggers httpkit packages look up when no
// logger is passed explicitly.
var componentLoggers = []string{"httpclient.diagnostics", "httpclient.logged"}

// App owns the lifecycle of an httpkit service.
type App struct {
	Name   string
	Cfg    *config.Config
	Logger *logger.Logger
	// Engine is set by Start.
	Engine *httpclient.Engine

	tracerProvider  *sdktrace.TracerProvider
	meterProvider   *sdkmetric.MeterProvider
	gracefulTimeout time.Duration
	privateEngine   bool
	started         bool
	stopped         bool

	onStart []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	o := resolveOptions(opts)
	app := &App{
		Name:            cfg.Name,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		privateEngine:   o.privateEngine,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&cfg.Logging, cfg.Name)
		logger.SetGlobalLogger(app.Logger)
	}
	return app, nil
}

// Start brings up telemetry and the transport engine, then runs OnStart hooks.
func (a *App) Start(ctx context.Context) error {
	if a.stopped {
		return apperrors.Unavailable("app " + a.Name)
	}
	if a.started {
		return errors.New("bootstrap: app already started")
	}
	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", version.GetVersionInfo().Version,
	))

	var engineOpts []httpclient.Option
	engineOpts = append(engineOpts, httpclient.WithLogger(a.Logger.WithComponent("httpclient")))

	if a.Cfg.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, a.Cfg.Tracing)
		if err != nil {
			return fmt.Errorf("tracer: %w", err)
		}
		a.tracerProvider = tp
		engineOpts = append(engineOpts, httpclient.WithTracerProvider(tp))
	}
	if a.Cfg.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, a.Cfg.Metrics)
		if err != nil {
			return errors.Join(fmt.Errorf("meter: %w", err), a.shutdownTelemetry(ctx))
		}
		a.meterProvider = mp
		engineOpts = append(engineOpts, httpclient.WithMeterProvider(mp))
	}

	if err := a.startEngine(engineOpts); err != nil {
		return errors.Join(fmt.Errorf("engine: %w", err), a.shutdownTelemetry(ctx))
	}
	a.started = true
	for _, name := range componentLoggers {
		logger.Register(name, a.Logger.WithComponent(name))
	}

	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	cfg := a.Engine.Config()
	a.Logger.Info("Application ready", logger.Fields(
		"engine", cfg.Name,
		"default_timeout_seconds", cfg.DefaultTimeoutSeconds,
		"max_timeout_seconds", cfg.MaxTimeoutSeconds,
		"tracing", a.tracerProvider != nil,
		"metrics", a.meterProvider != nil,
	))
	return nil
}

func (a *App) startEngine(opts []httpclient.Option) error {
	if a.privateEngine {
		e, err := httpclient.New(a.Cfg.HTTP, opts...)
		if err != nil {
			return err
		}
		a.Engine = e
		return nil
	}
	if err := httpclient.Init(a.Cfg.HTTP, opts...); err != nil {
		return err
	}
	a.Engine = httpclient.Shared()
	return nil
}

// RunTask starts the app, runs task with the engine and shuts down when the
// task returns or the process receives SIGINT/SIGTERM.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context, e *httpclient.Engine) error) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx, a.Engine)

	if stopErr := a.Shutdown(context.Background()); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// Shutdown runs OnStop hooks, closes the engine and flushes telemetry within
// the graceful timeout.
func (a *App) Shutdown(ctx context.Context) error {
	if !a.started {
		return nil
	}
	a.started = false
	a.stopped = true

	a.Logger.Info("Shutting down application", logger.Fields("timeout", a.gracefulTimeout.String()))

	ctx, cancel := context.WithTimeout(ctx, a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.Fields("error", err.Error()))
		shutdownErr = err
	}

	var err error
	if a.privateEngine {
		err = a.Engine.Close()
	} else {
		err = httpclient.Shutdown()
	}
	if err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	if err := a.shutdownTelemetry(ctx); err != nil && shutdownErr == nil {
		shutdownErr = err
	}

	for _, name := range componentLoggers {
		logger.Unregister(name)
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}

func (a *App) shutdownTelemetry(ctx context.Context) error {
	var errs []error
	if a.meterProvider != nil {
		errs = append(errs, a.meterProvider.Shutdown(ctx))
		a.meterProvider = nil
	}
	if a.tracerProvider != nil {
		errs = append(errs, a.tracerProvider.Shutdown(ctx))
		a.tracerProvider = nil
	}
	return errors.Join(errs...)
}
