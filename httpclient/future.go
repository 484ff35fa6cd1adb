package httpclient

// Future is the pending outcome of an asynchronous call.
type Future[T any] struct {
	done    chan struct{}
	outcome Outcome[T]
}

func goFuture[T any](fn func() Outcome[T]) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.outcome = fn()
	}()
	return f
}

// Done is closed when the outcome is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call completes and returns its outcome.
func (f *Future[T]) Wait() Outcome[T] {
	<-f.done
	return f.outcome
}
