package httpclient

import (
	"context"
	"errors"
	"time"
)

// cancelSource is the single cancellation source of one call. It is either
// an internally owned timer or a link to the caller's signal; release frees
// only what the engine created.
type cancelSource struct {
	ctx     context.Context
	release func()
	// external is the caller's signal, nil for the internal timer.
	external context.Context
}

func newCancelSource(parent, signal context.Context, timeout time.Duration) *cancelSource {
	if signal == nil {
		ctx, cancel := context.WithTimeoutCause(parent, timeout, ErrTimeout)
		return &cancelSource{ctx: ctx, release: cancel}
	}

	// Keep the parent's values (trace span) but not its cancellation.
	ctx, cancel := context.WithCancelCause(context.WithoutCancel(parent))
	if signal.Err() != nil {
		cancel(context.Cause(signal))
		return &cancelSource{ctx: ctx, release: func() { cancel(nil) }, external: signal}
	}
	stop := context.AfterFunc(signal, func() { cancel(context.Cause(signal)) })
	return &cancelSource{
		ctx: ctx,
		release: func() {
			stop()
			cancel(nil)
		},
		external: signal,
	}
}

// classify maps a failed round trip onto the error code that explains it.
func (c *cancelSource) classify() ErrorCode {
	if c.ctx.Err() == nil {
		return ErrCodeConnection
	}
	cause := context.Cause(c.ctx)
	if errors.Is(cause, ErrTimeout) || errors.Is(cause, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}
	return ErrCodeCanceled
}

// cause wraps err with the cancellation cause, if any, so errors.Is finds
// both ErrTimeout and the transport error.
func (c *cancelSource) cause(err error) error {
	if c.ctx.Err() == nil {
		return err
	}
	cause := context.Cause(c.ctx)
	if errors.Is(err, cause) {
		return err
	}
	return errors.Join(cause, err)
}
