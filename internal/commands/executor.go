package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/go-logr/logr"

	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/executor"
	"github.com/talis-fb/RequestTUI/internal/filter"
	"github.com/talis-fb/RequestTUI/internal/storage"
	"github.com/talis-fb/RequestTUI/internal/store"
	"github.com/talis-fb/RequestTUI/internal/types"
)

var (
	// ErrAlwaysFail is returned by the fail command
	ErrAlwaysFail = errors.New("command failed")
	// ErrNoRequest is returned when a command needs a selected request
	ErrNoRequest = errors.New("no request selected")
	// ErrNoResponse is returned when a command needs a response
	ErrNoResponse = errors.New("no response for the selected request")
	// ErrNoURL is returned when submitting a request without a URL
	ErrNoURL = errors.New("request has no URL")
)

// WebClient executes a request. Local failures are reported as a
// types.StatusInternalError response, never as an error.
type WebClient interface {
	Execute(ctx context.Context, req types.HttpRequest) types.Response
}

// Recorder stores finished executions
type Recorder interface {
	Record(req types.HttpRequest, resp types.Response) error
}

// Completion is a finished submission waiting to be stored
type Completion struct {
	RequestID string
	Response  types.Response
}

// Command returns the command that stores the completion
func (c Completion) Command() Command {
	return StoreResponse(c.RequestID, c.Response)
}

// Executor applies commands to the application state. Execute and Apply
// must only be called from the main loop goroutine.
type Executor struct {
	ctx         context.Context
	client      WebClient
	persistence storage.Persistence
	recorder    Recorder
	clipboard   func(string) error
	log         logr.Logger

	completions chan Completion
	workers     sync.WaitGroup
}

// Option configures an Executor
type Option func(*Executor)

// WithRecorder records every finished submission
func WithRecorder(r Recorder) Option {
	return func(e *Executor) { e.recorder = r }
}

// WithClipboard replaces the system clipboard
func WithClipboard(write func(string) error) Option {
	return func(e *Executor) { e.clipboard = write }
}

// WithLogger sets the structured logger
func WithLogger(log logr.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// NewExecutor creates an executor. Submissions run under ctx; cancelling it
// aborts requests still in flight.
func NewExecutor(ctx context.Context, client WebClient, persistence storage.Persistence, opts ...Option) *Executor {
	e := &Executor{
		ctx:         ctx,
		client:      client,
		persistence: persistence,
		clipboard:   clipboard.WriteAll,
		log:         logr.Discard(),
		completions: make(chan Completion, 16),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Completions delivers finished submissions
func (e *Executor) Completions() <-chan Completion {
	return e.completions
}

// Wait blocks until every submission worker has returned
func (e *Executor) Wait() {
	e.workers.Wait()
}

// Apply executes cmd and turns a failure into a log entry
func (e *Executor) Apply(s *app.State, cmd Command) {
	if err := e.Execute(s, cmd); err != nil {
		e.log.V(1).Info("command failed", "command", cmd.String(), "error", err.Error())
		s.AppendLogf("%s: %v", cmd, err)
	}
}

// Execute applies cmd to s. A command that returns an error leaves s as it
// found it.
func (e *Executor) Execute(s *app.State, cmd Command) error {
	switch cmd.Kind {
	case KindNoOp:
		return nil
	case KindFail:
		return ErrAlwaysFail
	case KindQuit:
		s.Finish()
		return nil

	case KindMove:
		if s.Focus() == app.FocusResponse {
			s.Scroll(cmd.Delta)
			return nil
		}
		s.Store().Move(cmd.Delta)
		s.ResetScroll()
		return nil
	case KindGoToTop:
		if s.Focus() == app.FocusResponse {
			s.ScrollTo(0)
			return nil
		}
		s.Store().Select(0)
		s.ResetScroll()
		return nil
	case KindGoToBottom:
		if s.Focus() == app.FocusResponse {
			s.ScrollTo(-1)
			return nil
		}
		s.Store().Select(s.Store().Len() - 1)
		s.ResetScroll()
		return nil
	case KindSwitchFocus:
		s.ToggleFocus()
		return nil

	case KindEdit:
		return e.edit(s, cmd.Field)
	case KindSubmit:
		return e.submit(s)
	case KindStoreResponse:
		return e.storeResponse(s, cmd)
	case KindNewRequest:
		s.Store().Add(store.NewRequest())
		s.ResetScroll()
		return nil
	case KindDeleteRequest:
		return e.deleteRequest(s)
	case KindCycleMethod:
		return e.cycleMethod(s)
	case KindSave:
		return e.save(s)

	case KindToggleHeaders:
		s.ToggleHeaders()
		return nil
	case KindToggleHelp:
		s.ToggleHelp()
		return nil
	case KindCopy:
		return e.copy(s)
	case KindHideLog:
		s.HideLog()
		return nil
	}
	return fmt.Errorf("unknown command kind %d", cmd.Kind)
}

func current(s *app.State) (types.HttpRequest, error) {
	cur, err := s.Store().Current()
	if errors.Is(err, store.ErrEmpty) {
		return cur, ErrNoRequest
	}
	return cur, err
}

func (e *Executor) edit(s *app.State, field app.Field) error {
	if err := s.BeginEdit(field); err != nil {
		if errors.Is(err, store.ErrEmpty) {
			return ErrNoRequest
		}
		return err
	}
	return nil
}

func (e *Executor) submit(s *app.State) error {
	req, err := current(s)
	if err != nil {
		return err
	}
	if strings.TrimSpace(req.URL) == "" {
		return ErrNoURL
	}
	if err := s.MarkInFlight(req.ID); err != nil {
		return err
	}

	s.AppendLogf("%s %s ...", req.Method, req.URL)
	e.log.Info("request submitted", "id", req.ID, "method", req.Method, "url", req.URL)

	e.workers.Add(1)
	go e.run(req)
	return nil
}

// run executes req on a worker goroutine and posts the completion
func (e *Executor) run(req types.HttpRequest) {
	defer e.workers.Done()

	resp := e.client.Execute(e.ctx, req)
	e.log.Info("request finished", "id", req.ID, "status", resp.Status, "durationMs", resp.ResponseTime)

	if e.recorder != nil {
		if err := e.recorder.Record(req, resp); err != nil {
			e.log.Error(err, "failed to record history", "id", req.ID)
		}
	}

	select {
	case e.completions <- Completion{RequestID: req.ID, Response: resp}:
	case <-e.ctx.Done():
	}
}

func (e *Executor) storeResponse(s *app.State, cmd Command) error {
	if !s.CompleteRequest(cmd.RequestID, cmd.Response) {
		s.AppendLog("discarded response for deleted request")
		return nil
	}

	resp := cmd.Response
	if resp.IsInternalError() {
		s.AppendLogf("request failed: %s", resp.Body)
	} else {
		s.AppendLogf("%d in %s, %s", resp.Status, executor.FormatDuration(resp.ResponseTime), executor.FormatSize(len(resp.Body)))
	}

	if cur, err := s.Store().Current(); err == nil && cur.ID == cmd.RequestID {
		s.ResetScroll()
	}
	return nil
}

func (e *Executor) deleteRequest(s *app.State) error {
	removed, err := s.Store().DeleteCurrent()
	if errors.Is(err, store.ErrEmpty) {
		return ErrNoRequest
	}
	if err != nil {
		return err
	}
	s.ResetScroll()
	s.AppendLogf("deleted %s", removed.DisplayName())
	return nil
}

func (e *Executor) cycleMethod(s *app.State) error {
	req, err := current(s)
	if err != nil {
		return err
	}
	req.Method = types.NextMethod(req.Method)
	return s.Store().Update(req)
}

func (e *Executor) save(s *app.State) error {
	requests := s.Store().Requests()
	if err := storage.SaveRequests(e.persistence, requests); err != nil {
		return fmt.Errorf("failed to save requests: %w", err)
	}
	s.AppendLogf("saved %d requests", len(requests))
	return nil
}

func (e *Executor) copy(s *app.State) error {
	req, err := current(s)
	if err != nil {
		return err
	}
	resp, ok := s.Store().Response(req.ID)
	if !ok {
		return ErrNoResponse
	}

	body := resp.Body
	if req.Filter != "" {
		if filtered, err := filter.Apply(body, req.Filter); err == nil {
			body = filtered
		}
	}

	if err := e.clipboard(body); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	s.AppendLogf("copied %s to clipboard", executor.FormatSize(len(body)))
	return nil
}
