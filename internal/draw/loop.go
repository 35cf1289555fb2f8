package draw

import (
	"context"
	"errors"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("draw loop stopped")

type event struct {
	fn   func()
	done chan struct{}
}

// Loop applies events one at a time on a single goroutine, in the order
// they were submitted. It gives the controller one logical thread of
// control while events arrive from concurrent HTTP handlers.
type Loop struct {
	events  chan event
	stopped chan struct{}
}

// NewLoop creates a loop with the given queue size.
func NewLoop(queue int) *Loop {
	if queue < 0 {
		queue = 0
	}
	return &Loop{
		events:  make(chan event, queue),
		stopped: make(chan struct{}),
	}
}

// Run processes events until ctx is done.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-l.events:
			ev.fn()
			close(ev.done)
		}
	}
}

// Do submits fn and waits until it has run.
// If ctx ends first, fn may still run later but Do returns ctx.Err().
func (l *Loop) Do(ctx context.Context, fn func()) error {
	ev := event{fn: fn, done: make(chan struct{})}

	select {
	case l.events <- ev:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-ev.done:
		return nil
	case <-l.stopped:
		// the event may have been dequeued just before stopping
		select {
		case <-ev.done:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
