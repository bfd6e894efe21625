package gio

import (
	"context"

	"github.com/desertwitch/gogio/internal/gerror"
)

// Cancellable is a token representing the cancellation request of an
// operation in flight. It is advisory: operations check it cooperatively.
// A nil *Cancellable is valid and never cancelled.
type Cancellable struct {
	ctx    context.Context //nolint:containedctx
	cancel context.CancelFunc
}

// NewCancellable returns a new [Cancellable] that is also cancelled when the
// parent context is done.
func NewCancellable(parent context.Context) *Cancellable {
	ctx, cancel := context.WithCancel(parent)

	return &Cancellable{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Cancel requests cancellation. It is safe to call more than once.
func (c *Cancellable) Cancel() {
	if c == nil {
		return
	}

	c.cancel()
}

// IsCancelled reports whether cancellation was requested.
func (c *Cancellable) IsCancelled() bool {
	return c != nil && c.ctx.Err() != nil
}

// Context returns a context that is done once the token is cancelled.
func (c *Cancellable) Context() context.Context {
	if c == nil {
		return context.Background()
	}

	return c.ctx
}

// ErrorIfCancelled returns an [IOErrorCancelled] error if cancellation was
// requested, and nil otherwise.
func (c *Cancellable) ErrorIfCancelled() *gerror.Error {
	if !c.IsCancelled() {
		return nil
	}

	return NewIOError(IOErrorCancelled, "Operation was cancelled")
}
