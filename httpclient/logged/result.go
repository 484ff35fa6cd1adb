// Package logged is the facade over the httpclient engine that reports
// failures to an ErrorLog instead of returning them. Every failed call
// records exactly one entry and yields an absent Result.
//
//	c := logged.New(engine, logged.WithErrorLog(myLog))
//	r := logged.GetJSON[User](ctx, c, url)
//	user := r.OrElse(User{})
package logged

import (
	"fmt"

	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
)

// Result is a possibly absent call result.
type Result[T any] struct {
	value   T
	present bool
}

// IsPresent reports whether the call succeeded.
func (r Result[T]) IsPresent() bool { return r.present }

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) { return r.value, r.present }

// OrElse returns the value, or fallback when absent.
func (r Result[T]) OrElse(fallback T) T {
	if !r.present {
		return fallback
	}
	return r.value
}

// ErrorLog receives failed calls. context is "<METHOD> <url>".
type ErrorLog interface {
	Record(err error, context string)
}

// ErrorLogFunc adapts a function to ErrorLog.
type ErrorLogFunc func(err error, context string)

// Record calls f.
func (f ErrorLogFunc) Record(err error, context string) { f(err, context) }

// LoggerErrorLog writes failures to a logger at error level.
type LoggerErrorLog struct {
	Logger *logger.Logger
}

// Record implements ErrorLog.
func (l LoggerErrorLog) Record(err error, context string) {
	log := l.Logger
	if log == nil {
		log = logger.Get("httpclient.logged")
	}
	fields := logger.ErrorFields(context, err)
	if terr, ok := httpclient.AsTransportError(err); ok {
		fields[logger.FieldStatus] = terr.StatusCode
		fields["error_code"] = terr.Code.String()
	}
	log.Error("call failed", fields)
}

func project[T any](c *Client, method, url string, o httpclient.Outcome[T]) Result[T] {
	if v, ok := o.Value(); ok {
		return Result[T]{value: v, present: true}
	}
	c.record(o.Err(), fmt.Sprintf("%s %s", method, url))
	return Result[T]{}
}
