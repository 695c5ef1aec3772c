package input

import (
	"errors"
	"sync"

	"github.com/talis-fb/RequestTUI/internal/keybinds"
)

var (
	// ErrQueueClosed is returned when pushing onto a closed queue
	ErrQueueClosed = errors.New("queue closed")
	// ErrQueueFull is returned when the consumer has fallen behind
	ErrQueueFull = errors.New("queue full")
)

// Queue is an ordered single-consumer channel that reports pushes after
// Close as an error instead of panicking
type Queue[T any] struct {
	mu     sync.Mutex
	ch     chan T
	closed bool
}

// ActionQueue carries resolved actions to the main loop
type ActionQueue = Queue[keybinds.Action]

// KeyQueue carries raw keys to the main loop while in insert mode
type KeyQueue = Queue[keybinds.Key]

// NewQueue creates a queue holding up to size pending items
func NewQueue[T any](size int) *Queue[T] {
	return &Queue[T]{ch: make(chan T, size)}
}

// Push enqueues v without blocking
func (q *Queue[T]) Push(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- v:
		return nil
	default:
		return ErrQueueFull
	}
}

// C is the receive side. It is closed by Close.
func (q *Queue[T]) C() <-chan T {
	return q.ch
}

// Close stops the queue. Items already pushed can still be received.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}

// Len returns the number of pending items
func (q *Queue[T]) Len() int {
	return len(q.ch)
}
