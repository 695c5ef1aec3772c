package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/executor"
	"github.com/talis-fb/RequestTUI/internal/filter"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
	"github.com/talis-fb/RequestTUI/internal/types"
)

const (
	minWidth    = 40
	minHeight   = 12
	logRows     = 3
	methodWidth = 7
)

// Frame is one laid-out screen: plain text rows plus an optional cursor
type Frame struct {
	Lines []string
	// Cursor is the cell to show the text cursor in, when editing
	Cursor *Cursor
}

// Cursor is a screen cell position
type Cursor struct {
	X, Y int
}

// View turns snapshots into frames. It is used from the render task only
// and is not safe for concurrent use.
type View struct {
	registry *keybinds.Registry
	styles   styles
	filters  filter.Cache
	help     *helpDoc
}

// NewView creates a view that documents the bindings in registry
func NewView(registry *keybinds.Registry) *View {
	return &View{
		registry: registry,
		styles:   newStyles(),
		help:     newHelpDoc(registry),
	}
}

// Render lays out snap in a width x height grid
func (v *View) Render(snap app.Snapshot, width, height int) Frame {
	if width < minWidth || height < minHeight {
		return Frame{Lines: []string{ansi.Truncate("terminal too small", width, "")}}
	}

	// border and title row around the newest logRows entries
	logHeight := logRows + 3
	mainHeight := height - logHeight - 1

	var main string
	if snap.ShowHelp {
		main = v.box("Help", v.help.Lines(width-2), width, mainHeight, true)
	} else {
		left := max(24, width*40/100)
		if width < 60 {
			left = width / 2
		}
		main = lipgloss.JoinHorizontal(lipgloss.Top,
			v.requestList(snap, left, mainHeight),
			v.detail(snap, width-left, mainHeight),
		)
	}

	status, cursorX := v.statusBar(snap, width)
	frame := lipgloss.JoinVertical(lipgloss.Left,
		main,
		v.box("Log", tail(snap.VisibleLog(), logRows), width, logHeight, false),
		status,
	)

	lines := strings.Split(ansi.Strip(frame), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	f := Frame{Lines: lines}
	if cursorX >= 0 {
		f.Cursor = &Cursor{X: cursorX, Y: height - 1}
	}
	return f
}

// box draws content inside a bordered panel of exactly w x h cells
func (v *View) box(title string, content []string, w, h int, focused bool) string {
	inner := w - 2
	rows := h - 2

	lines := make([]string, 0, rows)
	lines = append(lines, v.styles.title.Render(ansi.Truncate(title, inner, "")))
	for _, line := range content {
		if len(lines) == rows {
			break
		}
		lines = append(lines, ansi.Truncate(line, inner, "…"))
	}

	style := v.styles.box
	if focused {
		style = v.styles.focused
	}
	return style.Width(inner).Height(rows).Render(strings.Join(lines, "\n"))
}

func (v *View) requestList(snap app.Snapshot, w, h int) string {
	title := fmt.Sprintf("Requests (%d)", len(snap.Requests))
	if len(snap.Requests) == 0 {
		hint := "no requests, press " + v.registry.GetBindingString(keybinds.ActionNewRequest) + " to add one"
		return v.box(title, []string{hint}, w, h, snap.Focus == app.FocusRequests)
	}

	visible := h - 3
	start := 0
	if snap.Selected >= visible {
		start = snap.Selected - visible + 1
	}

	var lines []string
	for i := start; i < len(snap.Requests) && len(lines) < visible; i++ {
		r := snap.Requests[i]
		marker := "  "
		if i == snap.Selected {
			marker = "> "
		}
		if snap.IsInFlight(r.ID) {
			marker = marker[:1] + "*"
		}
		name := r.Name
		if name == "" {
			name = r.URL
		}
		lines = append(lines, marker+runewidth.FillRight(r.Method, methodWidth)+" "+name)
	}
	return v.box(title, lines, w, h, snap.Focus == app.FocusRequests)
}

func (v *View) detail(snap app.Snapshot, w, h int) string {
	focused := snap.Focus == app.FocusResponse
	req, ok := snap.Current()
	if !ok {
		return v.box("Request", nil, w, h, focused)
	}

	lines := []string{req.Method + " " + req.URL}
	for _, name := range slices.Sorted(maps.Keys(req.Headers)) {
		lines = append(lines, name+": "+req.Headers[name])
	}
	if req.Body != "" {
		lines = append(lines, "body: "+firstLine(req.Body))
	}
	if req.Filter != "" {
		lines = append(lines, "filter: "+req.Filter)
	}
	lines = append(lines, strings.Repeat("─", w-2))

	resp, hasResp := snap.Responses[req.ID]
	switch {
	case snap.IsInFlight(req.ID):
		lines = append(lines, "waiting for response...")
	case !hasResp:
		lines = append(lines, "no response yet")
	default:
		lines = append(lines, responseSummary(resp))
		body := h - 3 - len(lines)
		if body > 0 {
			lines = append(lines, v.responseBody(snap, req, resp, w-2, body)...)
		}
	}

	title := req.Name
	if title == "" {
		title = "Request"
	}
	return v.box(title, lines, w, h, focused)
}

// responseBody renders the scrolled window of the response body or headers
func (v *View) responseBody(snap app.Snapshot, req types.HttpRequest, resp types.Response, w, h int) []string {
	var content []string
	switch {
	case snap.ShowHeaders:
		for _, name := range slices.Sorted(maps.Keys(resp.Headers)) {
			content = append(content, name+": "+resp.Headers[name])
		}
	case resp.IsInternalError():
		content = []string{resp.Body}
	default:
		body := resp.Body
		if req.Filter != "" {
			filtered, err := v.filters.Apply(resp.Body, req.Filter)
			if err != nil {
				content = append(content, "filter error: "+err.Error())
			} else {
				body = filtered
			}
		}
		content = append(content, strings.Split(body, "\n")...)
	}

	for i, line := range content {
		content[i] = ansi.Truncate(strings.ReplaceAll(line, "\t", "    "), w, "…")
	}

	vp := viewport.New(w, h)
	vp.SetContent(strings.Join(content, "\n"))
	vp.SetYOffset(snap.Scroll)
	return strings.Split(vp.View(), "\n")
}

func responseSummary(resp types.Response) string {
	if resp.IsInternalError() {
		return fmt.Sprintf("error after %s", executor.FormatDuration(resp.ResponseTime))
	}
	verdict := ""
	switch {
	case executor.IsSuccessStatus(resp.Status):
		verdict = " ok"
	case executor.IsClientErrorStatus(resp.Status), executor.IsServerErrorStatus(resp.Status):
		verdict = " failed"
	}
	return fmt.Sprintf("%d%s | %s | %s",
		resp.Status, verdict,
		executor.FormatDuration(resp.ResponseTime),
		executor.FormatSize(len(resp.Body)))
}

// statusBar renders the bottom row. It returns the cursor column while a
// field is being edited, -1 otherwise.
func (v *View) statusBar(snap app.Snapshot, width int) (string, int) {
	left := " " + snap.Mode.String() + " "
	cursor := -1

	var right string
	switch {
	case snap.Edit != nil:
		prefix := snap.Edit.Field.String() + "> "
		runes := []rune(snap.Edit.Value)
		pos := min(max(snap.Edit.Cursor, 0), len(runes))
		right = prefix + snap.Edit.Value
		cursor = runewidth.StringWidth(left) + 1 + runewidth.StringWidth(prefix) + runewidth.StringWidth(string(runes[:pos]))
	case snap.Finished:
		right = "quitting"
	default:
		right = v.styles.subtle.Render(fmt.Sprintf("%s help | %s quit",
			v.registry.GetBindingString(keybinds.ActionOpenHelp),
			v.registry.GetBindingString(keybinds.ActionQuit)))
	}

	line := ansi.Truncate(left+" "+right, width, "")
	if cursor >= width {
		cursor = width - 1
	}
	return runewidth.FillRight(line, width), cursor
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
