package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/talis-fb/RequestTUI/internal/filter"
	"github.com/talis-fb/RequestTUI/internal/store"
	"github.com/talis-fb/RequestTUI/internal/types"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

// Focus identifies the panel navigation keys act on
type Focus int

const (
	FocusRequests Focus = iota
	FocusResponse
)

// maxLogLines bounds the log kept in memory
const maxLogLines = 200

// ErrRequestInFlight is returned when a request is submitted twice
var ErrRequestInFlight = errors.New("request already in flight")

// State is the single mutable aggregate of the application.
// Only the main loop goroutine may call its mutating methods; every other
// goroutine works from a Snapshot.
type State struct {
	mode      Mode
	store     *store.DataStore
	log       []string
	logHidden int // lines before this index are hidden from the log panel
	finished  bool

	focus       Focus
	showHeaders bool
	showHelp    bool
	scroll      int
	inflight    map[string]bool
	edit        *editor
	filters     filter.Cache
}

// NewState creates the state around a request store
func NewState(s *store.DataStore) *State {
	return &State{
		store:    s,
		inflight: make(map[string]bool),
	}
}

// Mode returns the current UI mode
func (s *State) Mode() Mode {
	return s.mode
}

// Store returns the live request store
func (s *State) Store() *store.DataStore {
	return s.store
}

// Finished reports whether the termination flag is set
func (s *State) Finished() bool {
	return s.finished
}

// Finish sets the termination flag
func (s *State) Finish() {
	s.finished = true
}

// AppendLog adds a human-readable line to the log. Only the newest
// maxLogLines lines are kept.
func (s *State) AppendLog(line string) {
	s.log = append(s.log, line)

	if over := len(s.log) - maxLogLines; over > 0 {
		s.log = append([]string(nil), s.log[over:]...)
		s.logHidden = max(0, s.logHidden-over)
	}
}

// AppendLogf formats a line and appends it to the log
func (s *State) AppendLogf(format string, args ...any) {
	s.AppendLog(fmt.Sprintf(format, args...))
}

// Log returns the retained log lines, oldest first
func (s *State) Log() []string {
	return append([]string(nil), s.log...)
}

// HideLog hides the lines logged so far from the log panel. The log itself
// is unchanged.
func (s *State) HideLog() {
	s.logHidden = len(s.log)
}

// ToggleFocus switches between the request list and the response panel
func (s *State) ToggleFocus() {
	if s.focus == FocusRequests {
		s.focus = FocusResponse
	} else {
		s.focus = FocusRequests
	}
}

// Focus returns the focused panel
func (s *State) Focus() Focus {
	return s.focus
}

// ToggleHeaders switches the response panel between body and headers
func (s *State) ToggleHeaders() {
	s.showHeaders = !s.showHeaders
	s.scroll = 0
}

// ToggleHelp shows or hides the help document
func (s *State) ToggleHelp() {
	s.showHelp = !s.showHelp
}

// Scroll moves the response panel by delta lines, clamped to the content
func (s *State) Scroll(delta int) {
	s.scroll = max(0, min(s.scroll+delta, s.responseLines()-1))
}

// ScrollTo positions the response panel; negative means the last line
func (s *State) ScrollTo(line int) {
	if line < 0 {
		line = s.responseLines() - 1
	}
	s.scroll = max(0, min(line, s.responseLines()-1))
}

// ResetScroll is called whenever the selected request changes
func (s *State) ResetScroll() {
	s.scroll = 0
}

func (s *State) responseLines() int {
	cur, err := s.store.Current()
	if err != nil {
		return 0
	}
	resp, ok := s.store.Response(cur.ID)
	if !ok {
		return 0
	}
	if s.showHeaders {
		return len(resp.Headers)
	}
	// Count what the response panel shows, not the raw body
	body := resp.Body
	if cur.Filter != "" && !resp.IsInternalError() {
		filtered, err := s.filters.Apply(resp.Body, cur.Filter)
		if err != nil {
			// error line above the raw body
			return strings.Count(body, "\n") + 2
		}
		body = filtered
	}
	return strings.Count(body, "\n") + 1
}

// MarkInFlight records that request id has been submitted
func (s *State) MarkInFlight(id string) error {
	if s.inflight[id] {
		return ErrRequestInFlight
	}
	s.inflight[id] = true
	return nil
}

// InFlight reports whether request id is awaiting a response
func (s *State) InFlight(id string) bool {
	return s.inflight[id]
}

// CompleteRequest stores a response and clears the in-flight mark
func (s *State) CompleteRequest(id string, resp types.Response) bool {
	delete(s.inflight, id)
	return s.store.SetResponse(id, resp)
}
