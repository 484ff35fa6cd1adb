// Package bootstrap wires an httpkit service together: it initializes the
// logger from config, starts the OpenTelemetry providers when enabled, brings
// up the transport engine and tears everything down in reverse order.
//
// # Quick Start
//
//	cfg, err := config.Load("billing")
//	app, err := bootstrap.NewApp(cfg)
//	err = app.RunTask(ctx, func(ctx context.Context, e *httpclient.Engine) error {
//	    _, err := rest.GetText(ctx, rest.New(e), "https://api.example.com/health")
//	    return err
//	})
package bootstrap
