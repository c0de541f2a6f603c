package midiport

import (
	"context"
	"sync"
)

// unboundedQueue is an unbounded FIFO of byte frames with a blocking
// receive, backing InputHandle.Recv. A fixed-capacity channel can't give
// that guarantee (a slow consumer would make Listen's driver callback
// block), so frames are buffered in a slice guarded by a mutex instead,
// with per-call waiters handed frames directly as they arrive.
type unboundedQueue struct {
	mu      sync.Mutex
	items   [][]byte
	waiters []*queueWaiter
	closed  bool
}

// queueWaiter is one blocked receiver's handoff channel. push() delivers
// directly to the oldest registered waiter when one exists, bypassing
// items entirely; a canceled receiver deregisters itself so a later push
// can't hand a frame to a waiter nobody is still reading from.
type queueWaiter struct {
	ch chan []byte
}

func newUnboundedQueue() *unboundedQueue {
	return &unboundedQueue{}
}

// push appends a frame, or hands it straight to the longest-waiting
// receiver if one is parked. Safe to call from the driver's listen
// callback.
func (q *unboundedQueue) push(frame []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	if len(q.waiters) > 0 {
		w := q.waiters[0]
		q.waiters = q.waiters[1:]
		w.ch <- frame
		return
	}
	q.items = append(q.items, frame)
}

// pop blocks until a frame is available or the queue is closed, in which
// case ok is false.
func (q *unboundedQueue) pop() (frame []byte, ok bool) {
	return q.popCtx(context.Background())
}

// popCtx is like pop but also returns early (ok=false) if ctx is done
// before a frame arrives or the queue closes. On cancellation it removes
// its own waiter registration; if push had already raced in a frame for
// it, that frame is put back at the front of the queue instead of being
// dropped.
func (q *unboundedQueue) popCtx(ctx context.Context) (frame []byte, ok bool) {
	q.mu.Lock()
	if len(q.items) > 0 {
		frame = q.items[0]
		q.items = q.items[1:]
		q.mu.Unlock()
		return frame, true
	}
	if q.closed {
		q.mu.Unlock()
		return nil, false
	}
	w := &queueWaiter{ch: make(chan []byte, 1)}
	q.waiters = append(q.waiters, w)
	q.mu.Unlock()

	select {
	case f, ok := <-w.ch:
		if !ok {
			return nil, false
		}
		return f, true
	case <-ctx.Done():
		q.mu.Lock()
		stillWaiting := q.removeWaiterLocked(w)
		q.mu.Unlock()
		if !stillWaiting {
			select {
			case f, ok := <-w.ch:
				if ok {
					q.requeueFront(f)
				}
			default:
			}
		}
		return nil, false
	}
}

func (q *unboundedQueue) removeWaiterLocked(w *queueWaiter) bool {
	for i, x := range q.waiters {
		if x == w {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			return true
		}
	}
	return false
}

func (q *unboundedQueue) requeueFront(frame []byte) {
	q.mu.Lock()
	q.items = append([][]byte{frame}, q.items...)
	q.mu.Unlock()
}

func (q *unboundedQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	for _, w := range q.waiters {
		close(w.ch)
	}
	q.waiters = nil
}
