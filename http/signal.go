package http

import (
	"context"
	"time"
)

// Signal is a cancellation token carried by a request. It's observed by the transport,
// never by messages themselves. A nil Signal is never aborted.
type Signal struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// NewSignal returns a signal, which is aborted either explicitly or together with the
// parent context.
func NewSignal(parent context.Context) *Signal {
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancelCause(parent)
	return &Signal{ctx: ctx, cancel: cancel}
}

// TimeoutSignal returns a signal, which is aborted after the timeout elapses.
func TimeoutSignal(timeout time.Duration) *Signal {
	s := NewSignal(nil)
	time.AfterFunc(timeout, func() {
		s.Abort(context.DeadlineExceeded)
	})

	return s
}

// Abort aborts the signal. If the reason is nil, ErrAbortedWithoutReason is used. Only the
// first call has an effect.
func (s *Signal) Abort(reason error) {
	if reason == nil {
		reason = ErrAbortedWithoutReason
	}

	s.cancel(reason)
}

func (s *Signal) Aborted() bool {
	return s != nil && s.ctx.Err() != nil
}

// Reason returns the abort reason, or nil if the signal isn't aborted.
func (s *Signal) Reason() error {
	if !s.Aborted() {
		return nil
	}

	return context.Cause(s.ctx)
}

// Context returns a context, which is cancelled as soon as the signal is aborted.
func (s *Signal) Context() context.Context {
	if s == nil {
		return context.Background()
	}

	return s.ctx
}
