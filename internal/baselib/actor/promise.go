package actor

import (
	"context"
	"sync"

	"github.com/lightningnetwork/lnd/fn/v2"
)

// promiseImpl is the concrete implementation backing both the Promise[T] and
// Future[T] interfaces declared in interface.go. The interfaces themselves
// were present in the retrieved teacher package, but the concrete type was
// not; this is built in the channel-plus-sync.Once idiom.
type promiseImpl[T any] struct {
	// done is closed exactly once, when the result becomes available.
	done chan struct{}

	// completeOnce guards against completing the promise more than once.
	completeOnce sync.Once

	// mu protects result once completeOnce has fired; readers that
	// observe done closed may read result without the mutex, but we take
	// it anyway for race-detector friendliness across callbacks.
	mu     sync.Mutex
	result fn.Result[T]
}

// NewPromise creates a new, incomplete Promise[T].
func NewPromise[T any]() Promise[T] {
	return &promiseImpl[T]{
		done: make(chan struct{}),
	}
}

// Complete implements Promise.
func (p *promiseImpl[T]) Complete(result fn.Result[T]) bool {
	completed := false
	p.completeOnce.Do(func() {
		p.mu.Lock()
		p.result = result
		p.mu.Unlock()

		close(p.done)
		completed = true
	})
	return completed
}

// Future implements Promise.
func (p *promiseImpl[T]) Future() Future[T] {
	return p
}

// Await implements Future.
func (p *promiseImpl[T]) Await(ctx context.Context) fn.Result[T] {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.result

	case <-ctx.Done():
		return fn.Err[T](ctx.Err())
	}
}

// ThenApply implements Future. It returns a new Future that completes with
// fn applied to this future's value, or with this future's error unchanged.
// If ctx is cancelled before the original future completes, the new future
// completes with the context's error instead.
func (p *promiseImpl[T]) ThenApply(ctx context.Context, fn2 func(T) T) Future[T] {
	next := NewPromise[T]()

	go func() {
		result := p.Await(ctx)

		val, err := result.Unpack()
		if err != nil {
			next.Complete(result)
			return
		}

		next.Complete(fn.Ok(fn2(val)))
	}()

	return next.Future()
}

// OnComplete implements Future. The callback runs on its own goroutine once
// the future completes or ctx is cancelled, whichever happens first.
func (p *promiseImpl[T]) OnComplete(ctx context.Context, cb func(fn.Result[T])) {
	go func() {
		cb(p.Await(ctx))
	}()
}
