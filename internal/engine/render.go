package engine

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/go-logr/logr"

	"github.com/talis-fb/RequestTUI/internal/app"
)

// ErrRenderStopped is returned by Submit once the render task has exited
var ErrRenderStopped = errors.New("render task stopped")

// Renderer draws one frame. A Renderer that also implements io.Closer is
// closed after the render task has been joined.
type Renderer interface {
	Draw(snap app.Snapshot) error
}

// RenderTask redraws the latest submitted snapshot once per interval until
// the shutdown flag is set. It never touches the live state.
type RenderTask struct {
	renderer Renderer
	interval time.Duration
	log      logr.Logger

	mailbox  chan app.Snapshot
	shutdown atomic.Bool
	stopped  chan struct{}
	err      error
	frames   atomic.Int64
}

// NewRenderTask creates a render task drawing with r every interval
func NewRenderTask(r Renderer, interval time.Duration, log logr.Logger) *RenderTask {
	return &RenderTask{
		renderer: r,
		interval: interval,
		log:      log,
		mailbox:  make(chan app.Snapshot, 1),
		stopped:  make(chan struct{}),
	}
}

// Submit hands a snapshot to the render task, replacing any snapshot not
// yet drawn. It fails once the task has exited. Only one goroutine may
// call Submit.
func (t *RenderTask) Submit(snap app.Snapshot) error {
	select {
	case <-t.stopped:
		if t.err != nil {
			return fmt.Errorf("%w: %w", ErrRenderStopped, t.err)
		}
		return ErrRenderStopped
	default:
	}

	select {
	case <-t.mailbox:
	default:
	}
	select {
	case t.mailbox <- snap:
	default:
	}
	return nil
}

// Shutdown sets the shutdown flag. The task ends after its current frame.
func (t *RenderTask) Shutdown() {
	t.shutdown.Store(true)
}

// ShutdownRequested reports whether the shutdown flag is set
func (t *RenderTask) ShutdownRequested() bool {
	return t.shutdown.Load()
}

// Done is closed when Run has returned
func (t *RenderTask) Done() <-chan struct{} {
	return t.stopped
}

// Frames returns the number of frames drawn so far
func (t *RenderTask) Frames() int64 {
	return t.frames.Load()
}

// Run is the render loop. It returns the first draw error, or a panic
// raised by the renderer converted to an error.
func (t *RenderTask) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
		t.err = err
		close(t.stopped)
	}()

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	var latest *app.Snapshot
	for {
		<-ticker.C

		if snap, ok := t.take(); ok {
			latest = &snap
		}
		if latest != nil {
			if err := t.draw(*latest); err != nil {
				return err
			}
		}

		if t.shutdown.Load() {
			// a final snapshot may have been submitted just before the flag
			if snap, ok := t.take(); ok {
				return t.draw(snap)
			}
			return nil
		}
	}
}

func (t *RenderTask) take() (app.Snapshot, bool) {
	select {
	case snap := <-t.mailbox:
		return snap, true
	default:
		return app.Snapshot{}, false
	}
}

func (t *RenderTask) draw(snap app.Snapshot) error {
	if err := t.renderer.Draw(snap); err != nil {
		t.log.Error(err, "failed to draw frame")
		return fmt.Errorf("failed to draw frame: %w", err)
	}
	t.frames.Add(1)
	return nil
}

// close releases the renderer
func (t *RenderTask) close() error {
	if c, ok := t.renderer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
