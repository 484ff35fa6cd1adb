package httpclient

import (
	"github.com/kbukum/httpkit/logger"
)

// LogDiagnostics returns a hook writing both texts to l at debug level.
func LogDiagnostics(l *logger.Logger) DiagnosticsHook {
	if l == nil {
		l = logger.Get("httpclient.diagnostics")
	}
	return func(requestText, responseText string) {
		l.Debug("call diagnostics", logger.Fields(
			logger.FieldRequest, requestText,
			logger.FieldResponse, responseText,
		))
	}
}
