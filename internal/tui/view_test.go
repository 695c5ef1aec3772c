package tui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
	"github.com/talis-fb/RequestTUI/internal/types"
)

func testSnapshot() app.Snapshot {
	return app.Snapshot{
		Requests: []types.HttpRequest{
			{ID: "a", Name: "users", Method: "GET", URL: "http://localhost/users"},
			{ID: "b", Method: "POST", URL: "http://localhost/login", Body: `{"user":"ana"}`},
		},
		Responses: map[string]types.Response{},
		Log:       []string{"first", "second", "third", "fourth"},
	}
}

func render(t *testing.T, snap app.Snapshot, w, h int) (Frame, string) {
	t.Helper()
	v := NewView(keybinds.NewDefaultRegistry())
	f := v.Render(snap, w, h)
	return f, strings.Join(f.Lines, "\n")
}

func TestRender_Layout(t *testing.T) {
	f, text := render(t, testSnapshot(), 100, 30)

	require.Len(t, f.Lines, 30)
	for i, line := range f.Lines {
		assert.LessOrEqual(t, ansi.StringWidth(line), 100, "line %d", i)
	}
	assert.Contains(t, text, "Requests (2)")
	assert.Contains(t, text, "> GET     users")
	assert.Contains(t, text, "POST    http://localhost/login")
	assert.Contains(t, text, "no response yet")
	assert.Nil(t, f.Cursor)

	assert.NotContains(t, text, "first", "only the newest log lines are shown")
	assert.Contains(t, text, "fourth")
	assert.True(t, strings.HasPrefix(f.Lines[29], " NORMAL "))
}

func TestRender_NewestLogLinesVisible(t *testing.T) {
	snap := testSnapshot()
	snap.Log = []string{"saved 1 requests", "deleted x", "fail: command failed"}

	_, text := render(t, snap, 100, 30)

	for _, line := range snap.Log {
		assert.Contains(t, text, line)
	}
}

func TestRender_TooSmall(t *testing.T) {
	f, _ := render(t, testSnapshot(), 20, 5)
	assert.Equal(t, []string{"terminal too small"}, f.Lines)
	assert.Nil(t, f.Cursor)
}

func TestRender_EmptyStore(t *testing.T) {
	_, text := render(t, app.Snapshot{}, 100, 30)
	assert.Contains(t, text, "no requests, press")
}

func TestRender_InFlight(t *testing.T) {
	snap := testSnapshot()
	snap.InFlight = []string{"a"}

	_, text := render(t, snap, 100, 30)

	assert.Contains(t, text, ">*GET")
	assert.Contains(t, text, "waiting for response...")
}

func TestRender_Response(t *testing.T) {
	snap := testSnapshot()
	snap.Responses["a"] = types.Response{
		Status:       200,
		ResponseTime: 42,
		Headers:      map[string]string{"Content-Type": "application/json"},
		Body:         `{"name":"ana"}`,
	}

	_, text := render(t, snap, 100, 30)
	assert.Contains(t, text, "200 ok")
	assert.Contains(t, text, `{"name":"ana"}`)
	assert.NotContains(t, text, "Content-Type")

	snap.ShowHeaders = true
	_, text = render(t, snap, 100, 30)
	assert.Contains(t, text, "Content-Type: application/json")
}

func TestRender_Filter(t *testing.T) {
	snap := testSnapshot()
	snap.Requests[0].Filter = "name"
	snap.Responses["a"] = types.Response{Status: 200, Body: `{"name":"ana"}`}

	_, text := render(t, snap, 100, 30)
	assert.Contains(t, text, "filter: name")
	assert.Contains(t, text, `"ana"`)
	assert.NotContains(t, text, `{"name":"ana"}`)

	snap.Requests[0].Filter = "name[["
	_, text = render(t, snap, 100, 30)
	assert.Contains(t, text, "filter error")
	assert.Contains(t, text, `{"name":"ana"}`, "raw body shown when the filter fails")
}

func TestRender_InternalError(t *testing.T) {
	snap := testSnapshot()
	snap.Responses["a"] = types.InternalErrorResponse(assert.AnError)

	_, text := render(t, snap, 100, 30)
	assert.Contains(t, text, "error after")
	assert.Contains(t, text, assert.AnError.Error())
}

func TestRender_Scroll(t *testing.T) {
	snap := testSnapshot()
	var body []string
	for i := range 40 {
		body = append(body, fmt.Sprintf("line-%02d", i))
	}
	snap.Responses["a"] = types.Response{Status: 200, Body: strings.Join(body, "\n")}
	snap.Scroll = 4

	_, text := render(t, snap, 100, 30)
	assert.NotContains(t, text, "line-03")
	assert.Contains(t, text, "line-04")
	assert.NotContains(t, text, "line-39")
}

func TestRender_InsertCursor(t *testing.T) {
	snap := testSnapshot()
	snap.Mode = app.ModeInsert
	snap.Edit = &app.EditTarget{Field: app.FieldURL, Value: "http://x", Cursor: 3}

	f, _ := render(t, snap, 100, 30)

	status := f.Lines[29]
	assert.True(t, strings.HasPrefix(status, " INSERT  url> http://x"))
	require.NotNil(t, f.Cursor)
	assert.Equal(t, Cursor{X: len(" INSERT  url> htt"), Y: 29}, *f.Cursor)
}

func TestRender_Help(t *testing.T) {
	snap := testSnapshot()
	snap.ShowHelp = true

	_, text := render(t, snap, 100, 40)

	assert.Contains(t, text, "Help")
	assert.Contains(t, text, "Quit application")
	assert.NotContains(t, text, "Requests (2)")
}

func TestHelpMarkdown(t *testing.T) {
	md := HelpMarkdown(keybinds.NewDefaultRegistry())

	assert.Contains(t, md, "## Global")
	assert.Contains(t, md, "| `Z Z, ctrl+c, q` | Quit application |")
	assert.Less(t, strings.Index(md, "## Global"), strings.Index(md, "## Navigation"))
}

func TestHelpDoc_CachesPerWidth(t *testing.T) {
	h := newHelpDoc(keybinds.NewDefaultRegistry())

	first := h.Lines(80)
	again := h.Lines(80)
	require.NotEmpty(t, first)
	assert.Same(t, &first[0], &again[0])

	narrow := h.Lines(40)
	assert.NotSame(t, &first[0], &narrow[0])
}
