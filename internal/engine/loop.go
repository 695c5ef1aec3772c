package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/commands"
	"github.com/talis-fb/RequestTUI/internal/input"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
)

// Config wires the loop to its collaborators
type Config struct {
	State    *app.State
	Executor *commands.Executor
	Cycle    *input.Cycle
	Actions  *input.ActionQueue
	RawKeys  *input.KeyQueue
	Render   *RenderTask
	// Interval bounds the wait for an action on each tick
	Interval time.Duration
	Log      logr.Logger
	// Stderr receives the shutdown report; os.Stderr when nil
	Stderr io.Writer
}

// Loop is the main orchestration loop. It is the only goroutine that
// mutates the application state.
type Loop struct {
	state    *app.State
	exec     *commands.Executor
	cycle    *input.Cycle
	render   *RenderTask
	interval time.Duration
	log      logr.Logger
	stderr   io.Writer

	actionsC    <-chan keybinds.Action
	rawC        <-chan keybinds.Key
	completions <-chan commands.Completion
	sourceGone  <-chan struct{}
	ticks       int64
}

// New creates a loop from cfg
func New(cfg Config) *Loop {
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Loop{
		state:       cfg.State,
		exec:        cfg.Executor,
		cycle:       cfg.Cycle,
		render:      cfg.Render,
		interval:    cfg.Interval,
		log:         cfg.Log,
		stderr:      stderr,
		actionsC:    cfg.Actions.C(),
		rawC:        cfg.RawKeys.C(),
		completions: cfg.Executor.Completions(),
		sourceGone:  cfg.Cycle.Closed(),
	}
}

// Run drives ticks until the termination flag is set or rendering fails.
// A render failure is returned; a failure joining the render task is
// reported on stderr and in the log but does not make Run fail.
func (l *Loop) Run(ctx context.Context) error {
	var g errgroup.Group
	g.Go(l.render.Run)

	var fatal error
	for !l.state.Finished() {
		if err := l.tick(ctx); err != nil {
			l.log.Error(err, "render handshake failed, shutting down")
			fatal = err
			break
		}
	}

	if fatal == nil {
		if err := l.render.Submit(l.state.Snapshot()); err != nil {
			l.log.Error(err, "failed to submit final frame")
		}
	}
	l.render.Shutdown()

	joinErr := g.Wait()
	if err := l.render.close(); err != nil {
		l.log.Error(err, "failed to close renderer")
	}
	if joinErr != nil && !errors.Is(fatal, joinErr) {
		l.log.Error(joinErr, "render task did not end cleanly")
		fmt.Fprintf(l.stderr, "render task did not end cleanly: %v\n", joinErr)
	}

	l.log.Info("main loop stopped", "ticks", l.ticks)
	return fatal
}

// tick runs one iteration: render handshake, gated input, then at most one
// command
func (l *Loop) tick(ctx context.Context) error {
	l.ticks++

	if err := l.render.Submit(l.state.Snapshot()); err != nil {
		return err
	}

	l.publishMode()
	l.cycle.TryStart()
	defer l.publishMode()

	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	// No commands run in insert mode; finished requests wait for normal mode
	completions := l.completions
	if l.state.Mode() == app.ModeInsert {
		completions = nil
	}

	select {
	case action, ok := <-l.actionsC:
		if !ok {
			l.log.Error(input.ErrQueueClosed, "action channel closed")
			l.actionsC = nil
			return nil
		}
		if l.state.Mode() == app.ModeInsert {
			l.log.V(1).Info("dropping action received in insert mode", "action", string(action))
			return nil
		}
		l.exec.Apply(l.state, commands.Map(action))

	case key, ok := <-l.rawC:
		if !ok {
			l.log.Error(input.ErrQueueClosed, "raw key channel closed")
			l.rawC = nil
			return nil
		}
		l.state.HandleInsertKey(key)

	case done := <-completions:
		l.exec.Apply(l.state, done.Command())

	// Shutdown signals quit in either mode
	case <-l.sourceGone:
		l.log.Info("input source closed, quitting")
		l.sourceGone = nil
		l.exec.Apply(l.state, commands.Quit())

	case <-ctx.Done():
		l.log.Info("context cancelled, quitting", "reason", context.Cause(ctx).Error())
		l.exec.Apply(l.state, commands.Quit())

	case <-timer.C:
	}
	return nil
}

// publishMode tells input cycles whether keys are text or chords
func (l *Loop) publishMode() {
	l.cycle.SetInsert(l.state.Mode() == app.ModeInsert)
}
