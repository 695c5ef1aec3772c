package input

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"

	"github.com/talis-fb/RequestTUI/internal/keybinds"
)

// ErrSourceClosed is returned by a KeySource that will never produce
// another key
var ErrSourceClosed = errors.New("key source closed")

// KeySource produces one key per call, blocking until it has one
type KeySource interface {
	ReadKey() (keybinds.Key, error)
}

// Cycle runs gated, single-shot key reads. Each started cycle reads one
// key on its own goroutine and forwards it: resolved through the keymap
// onto the action queue in normal mode, or unchanged onto the raw key
// queue in insert mode.
type Cycle struct {
	source   KeySource
	resolver *keybinds.Resolver
	actions  *ActionQueue
	raw      *KeyQueue
	log      logr.Logger

	gate   atomic.Bool
	insert atomic.Bool

	running   sync.WaitGroup
	closed    chan struct{}
	closeOnce sync.Once
}

// NewCycle creates a cycle with the gate open
func NewCycle(source KeySource, resolver *keybinds.Resolver, actions *ActionQueue, raw *KeyQueue, log logr.Logger) *Cycle {
	c := &Cycle{
		source:   source,
		resolver: resolver,
		actions:  actions,
		raw:      raw,
		log:      log,
		closed:   make(chan struct{}),
	}
	c.gate.Store(true)
	return c
}

// GateOpen reports whether a new cycle may start
func (c *Cycle) GateOpen() bool {
	return c.gate.Load()
}

// SetInsert publishes the UI mode read by cycles after their key arrives
func (c *Cycle) SetInsert(insert bool) {
	c.insert.Store(insert)
}

// TryStart closes the gate and starts one cycle. It returns false, and
// starts nothing, when the gate is already closed.
func (c *Cycle) TryStart() bool {
	if !c.gate.CompareAndSwap(true, false) {
		return false
	}
	c.running.Add(1)
	go c.run()
	return true
}

// Closed is closed once the key source reports ErrSourceClosed
func (c *Cycle) Closed() <-chan struct{} {
	return c.closed
}

// Wait blocks until the running cycle, if any, has returned
func (c *Cycle) Wait() {
	c.running.Wait()
}

func (c *Cycle) run() {
	defer c.running.Done()

	key, err := c.source.ReadKey()
	if err != nil {
		if errors.Is(err, ErrSourceClosed) {
			c.log.Info("key source closed")
			c.closeOnce.Do(func() { close(c.closed) })
			return
		}
		c.log.Error(err, "failed to read key")
		c.gate.Store(true)
		return
	}

	if err := c.forward(key); err != nil {
		c.log.Error(err, "input cycle aborted", "key", string(key))
	}
	c.gate.Store(true)
}

func (c *Cycle) forward(key keybinds.Key) error {
	if c.insert.Load() {
		return c.raw.Push(key)
	}

	result := c.resolver.Resolve(key)
	c.log.V(2).Info("key resolved", "key", string(key), "outcome", result.Outcome.String())
	if result.Outcome != keybinds.Concrete {
		return nil
	}
	return c.actions.Push(result.Action)
}
