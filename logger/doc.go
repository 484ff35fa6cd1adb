// Package logger provides structured logging for httpkit using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. The transport engine logs
// through the "httpclient" component logger; the logged facade and the
// diagnostics sink write through whichever Logger they are given.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Info("call finished", logger.Fields("status", 200))
package logger
