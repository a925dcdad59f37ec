// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package executor

import (
	"context"
	"errors"
	"iter"
	"sync"

	"github.com/go-a2a/agentbridge/types"
)

// DefaultQueueSize is the buffer size of a queue created with [NewEventQueue].
const DefaultQueueSize = 1024

// ErrQueueClosed is returned by [EventQueue.Enqueue] after the queue closed.
var ErrQueueClosed = errors.New("event queue is closed")

// EventQueue delivers protocol events from one task execution to its caller
// in FIFO order. Single producer side (the executor), single consumer.
type EventQueue struct {
	ch chan types.TaskEvent

	mu     sync.RWMutex
	closed bool
}

// NewEventQueue creates a queue with the given buffer size; size <= 0 uses
// [DefaultQueueSize].
func NewEventQueue(size int) *EventQueue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &EventQueue{
		ch: make(chan types.TaskEvent, size),
	}
}

// Enqueue publishes one event. It blocks while the buffer is full and fails
// with [ErrQueueClosed] after [EventQueue.Close] or with the context error if
// ctx ends first.
func (q *EventQueue) Enqueue(ctx context.Context, event types.TaskEvent) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close marks the end of the event stream. Idempotent.
func (q *EventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.ch)
}

// Events returns the consumer side of the queue: every enqueued event in
// order, ending when the queue closes and drains.
func (q *EventQueue) Events() iter.Seq[types.TaskEvent] {
	return func(yield func(types.TaskEvent) bool) {
		for event := range q.ch {
			if !yield(event) {
				return
			}
		}
	}
}
