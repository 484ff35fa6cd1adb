package httpclient

// Outcome is the result of one call: either a success value or a
// *TransportError, never both and never neither.
type Outcome[T any] struct {
	value T
	err   *TransportError
}

// Success creates a successful outcome.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Failure creates a failed outcome. It panics if err is nil.
func Failure[T any](err *TransportError) Outcome[T] {
	if err == nil {
		panic("httpclient: Failure called with nil error")
	}
	return Outcome[T]{err: err}
}

// IsSuccess reports whether the outcome carries a value.
func (o Outcome[T]) IsSuccess() bool {
	return o.err == nil
}

// Value returns the success value and true, or the zero value and false.
func (o Outcome[T]) Value() (T, bool) {
	return o.value, o.err == nil
}

// Err returns the failure, or nil on success.
func (o Outcome[T]) Err() *TransportError {
	return o.err
}

// Get returns the value and the error in the usual Go shape. The error is
// either nil or a *TransportError.
func (o Outcome[T]) Get() (T, error) {
	if o.err != nil {
		var zero T
		return zero, o.err
	}
	return o.value, nil
}

// OrElse returns the success value, or fallback on failure.
func (o Outcome[T]) OrElse(fallback T) T {
	if o.err != nil {
		return fallback
	}
	return o.value
}

// MapOutcome applies fn to a successful value and passes failures through.
func MapOutcome[T, U any](o Outcome[T], fn func(T) U) Outcome[U] {
	if o.err != nil {
		return Outcome[U]{err: o.err}
	}
	return Success(fn(o.value))
}
