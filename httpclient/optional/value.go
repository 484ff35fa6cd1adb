// Package optional is the facade over the httpclient engine that never
// returns an error: failures become an absent Value that still carries the
// *httpclient.TransportError for inspection.
//
//	v := optional.GetJSON[User](ctx, optional.Default(), url)
//	if u, ok := v.Get(); ok { ... } else { log(v.Err().StatusCode) }
package optional

import "github.com/kbukum/httpkit/httpclient"

// Value is a possibly absent call result.
type Value[T any] struct {
	value   T
	err     *httpclient.TransportError
	present bool
}

func fromOutcome[T any](o httpclient.Outcome[T]) Value[T] {
	if v, ok := o.Value(); ok {
		return Value[T]{value: v, present: true}
	}
	return Value[T]{err: o.Err()}
}

// IsPresent reports whether the call succeeded.
func (v Value[T]) IsPresent() bool { return v.present }

// Get returns the value and whether it is present.
func (v Value[T]) Get() (T, bool) { return v.value, v.present }

// Err returns the failure of an absent value, nil when present.
func (v Value[T]) Err() *httpclient.TransportError { return v.err }

// OrElse returns the value, or fallback when absent.
func (v Value[T]) OrElse(fallback T) T {
	if !v.present {
		return fallback
	}
	return v.value
}
