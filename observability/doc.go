// Package observability provides OpenTelemetry tracing and metrics for the
// httpkit transport engine.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("billing"))
//	defer mp.Shutdown(ctx)
//
// The engine picks up the global providers unless it is given explicit ones,
// opens one span per call and records TransportMetrics for every outcome.
package observability
