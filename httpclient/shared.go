package httpclient

import (
	"errors"
	"sync"
)

// ErrAlreadyInitialized is returned by Init when the shared engine exists.
var ErrAlreadyInitialized = errors.New("httpclient: shared engine already initialized")

var (
	sharedMu     sync.Mutex
	sharedEngine *Engine
	sharedDown   bool
)

// Init creates the process-wide engine. It must run before the first call to
// Shared; once the shared engine was shut down it returns ErrEngineClosed.
func Init(cfg Config, opts ...Option) error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDown {
		return ErrEngineClosed
	}
	if sharedEngine != nil {
		return ErrAlreadyInitialized
	}
	e, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	sharedEngine = e
	return nil
}

// Shared returns the process-wide engine, creating one with the default
// configuration if Init was not called. After Shutdown it keeps returning
// the closed engine so calls fail fast.
func Shared() *Engine {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	return sharedLocked()
}

func sharedLocked() *Engine {
	if sharedEngine == nil {
		e, err := New(Config{})
		if err != nil {
			// The zero Config always validates after ApplyDefaults.
			panic(err)
		}
		sharedEngine = e
	}
	return sharedEngine
}

// Shutdown closes the process-wide engine exactly once. Further calls are
// no-ops.
func Shutdown() error {
	sharedMu.Lock()
	defer sharedMu.Unlock()

	if sharedDown {
		return nil
	}
	sharedDown = true
	return sharedLocked().Close()
}
