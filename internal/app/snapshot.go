package app

import (
	"maps"
	"slices"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// Snapshot is a read-only copy of State handed to the render task.
// It shares no memory with the live state.
type Snapshot struct {
	Mode        Mode
	Focus       Focus
	Requests    []types.HttpRequest
	Selected    int
	Responses   map[string]types.Response
	InFlight    []string
	Log         []string
	LogHidden   int // number of leading Log lines hidden from the panel
	Finished    bool
	ShowHeaders bool
	ShowHelp    bool
	Scroll      int
	Edit        *EditTarget
}

// Snapshot copies every observable field of the state
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:        s.mode,
		Focus:       s.focus,
		Requests:    s.store.Requests(),
		Selected:    s.store.Index(),
		Responses:   make(map[string]types.Response),
		InFlight:    slices.Sorted(maps.Keys(s.inflight)),
		Log:         s.Log(),
		LogHidden:   s.logHidden,
		Finished:    s.finished,
		ShowHeaders: s.showHeaders,
		ShowHelp:    s.showHelp,
		Scroll:      s.scroll,
		Edit:        s.editTarget(),
	}
	for _, r := range snap.Requests {
		if resp, ok := s.store.Response(r.ID); ok {
			snap.Responses[r.ID] = resp
		}
	}
	return snap
}

// Current returns the selected request, if any
func (s Snapshot) Current() (types.HttpRequest, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Requests) {
		return types.HttpRequest{}, false
	}
	return s.Requests[s.Selected], true
}

// CurrentResponse returns the response stored for the selected request
func (s Snapshot) CurrentResponse() (types.Response, bool) {
	cur, ok := s.Current()
	if !ok {
		return types.Response{}, false
	}
	resp, ok := s.Responses[cur.ID]
	return resp, ok
}

// IsInFlight reports whether request id awaits a response
func (s Snapshot) IsInFlight(id string) bool {
	_, found := slices.BinarySearch(s.InFlight, id)
	return found
}

// VisibleLog returns the log lines shown in the log panel
func (s Snapshot) VisibleLog() []string {
	if s.LogHidden >= len(s.Log) {
		return nil
	}
	return s.Log[max(0, s.LogHidden):]
}
