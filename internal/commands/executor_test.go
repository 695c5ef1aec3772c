package commands

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talis-fb/RequestTUI/internal/app"
	"github.com/talis-fb/RequestTUI/internal/keybinds"
	"github.com/talis-fb/RequestTUI/internal/storage"
	"github.com/talis-fb/RequestTUI/internal/store"
	"github.com/talis-fb/RequestTUI/internal/types"
)

type fakeClient struct {
	mu       sync.Mutex
	requests []types.HttpRequest
	response types.Response
}

func (f *fakeClient) Execute(_ context.Context, req types.HttpRequest) types.Response {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.response
}

type memFile struct {
	content string
	err     error
}

func (m *memFile) GetContent() (string, error) { return m.content, m.err }

func (m *memFile) SaveContent(content string) error {
	if m.err != nil {
		return m.err
	}
	m.content = content
	return nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	entries []types.Response
}

func (f *fakeRecorder) Record(_ types.HttpRequest, resp types.Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, resp)
	return nil
}

func newFixture(t *testing.T) (*app.State, *Executor, *fakeClient, *memFile) {
	t.Helper()
	client := &fakeClient{response: types.Response{Status: 200, Body: `{"ok":true}`}}
	file := &memFile{}
	s := app.NewState(store.New([]types.HttpRequest{
		{ID: "a", Name: "users", Method: "GET", URL: "http://localhost/users"},
		{ID: "b", Method: "POST", URL: "http://localhost/login"},
	}))
	e := NewExecutor(context.Background(), client, file, WithClipboard(func(string) error { return nil }))
	return s, e, client, file
}

func TestNoOp_LeavesStateUnchanged(t *testing.T) {
	s, e, _, _ := newFixture(t)
	s.AppendLog("existing")
	before := s.Snapshot()

	e.Apply(s, NoOp())

	assert.Equal(t, before, s.Snapshot())
}

func TestFail_AppendsOneLogEntry(t *testing.T) {
	s, e, _, _ := newFixture(t)
	before := s.Snapshot()

	require.ErrorIs(t, e.Execute(s, Fail()), ErrAlwaysFail)
	assert.Equal(t, before, s.Snapshot(), "Execute alone changes nothing")

	e.Apply(s, Fail())

	after := s.Snapshot()
	require.Len(t, after.Log, len(before.Log)+1)
	assert.Equal(t, "fail: command failed", after.Log[len(after.Log)-1])
	after.Log = before.Log
	assert.Equal(t, before, after)
}

func TestQuit_OnlySetsFlag(t *testing.T) {
	s, e, _, _ := newFixture(t)
	before := s.Snapshot()
	require.False(t, before.Finished)

	e.Apply(s, Quit())

	after := s.Snapshot()
	assert.True(t, after.Finished)
	after.Finished = false
	assert.Equal(t, before, after)
}

func TestMap(t *testing.T) {
	tests := []struct {
		action keybinds.Action
		want   Command
	}{
		{keybinds.ActionQuit, Quit()},
		{keybinds.ActionFail, Fail()},
		{keybinds.ActionNoOp, NoOp()},
		{keybinds.ActionComposing, NoOp()},
		{keybinds.Action("unheard_of"), NoOp()},
		{keybinds.ActionNavigateUp, Command{Kind: KindMove, Delta: -1}},
		{keybinds.ActionNavigateDown, Command{Kind: KindMove, Delta: 1}},
		{keybinds.ActionEditBody, Command{Kind: KindEdit, Field: app.FieldBody}},
		{keybinds.ActionExecute, Command{Kind: KindSubmit}},
		{keybinds.ActionOpenHelp, Command{Kind: KindToggleHelp}},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.want, Map(tt.action))
		})
	}
}

func TestMap_EveryKnownActionHasACommand(t *testing.T) {
	for _, action := range keybinds.KnownActions() {
		if action == keybinds.ActionNoOp {
			continue
		}
		assert.NotEqual(t, KindNoOp, Map(action).Kind, "action %s", action)
	}
}

func TestNavigation(t *testing.T) {
	s, e, _, _ := newFixture(t)

	e.Apply(s, Map(keybinds.ActionNavigateDown))
	assert.Equal(t, 1, s.Snapshot().Selected)
	e.Apply(s, Map(keybinds.ActionGoToTop))
	assert.Equal(t, 0, s.Snapshot().Selected)
	e.Apply(s, Map(keybinds.ActionGoToBottom))
	assert.Equal(t, 1, s.Snapshot().Selected)

	e.Apply(s, Map(keybinds.ActionSwitchFocus))
	assert.Equal(t, app.FocusResponse, s.Snapshot().Focus)
	e.Apply(s, Map(keybinds.ActionNavigateUp))
	assert.Equal(t, 1, s.Snapshot().Selected, "response focus scrolls instead of moving")
}

func TestSubmit_RoundTrip(t *testing.T) {
	s, e, client, _ := newFixture(t)
	rec := &fakeRecorder{}
	e.recorder = rec

	require.NoError(t, e.Execute(s, Command{Kind: KindSubmit}))
	assert.True(t, s.InFlight("a"))
	assert.ErrorIs(t, e.Execute(s, Command{Kind: KindSubmit}), app.ErrRequestInFlight)

	var done Completion
	select {
	case done = <-e.Completions():
	case <-time.After(time.Second):
		t.Fatal("no completion")
	}
	e.Wait()

	assert.Equal(t, "a", done.RequestID)
	require.NoError(t, e.Execute(s, done.Command()))

	snap := s.Snapshot()
	assert.False(t, snap.IsInFlight("a"))
	resp, ok := snap.CurrentResponse()
	require.True(t, ok)
	assert.Equal(t, 200, resp.Status)
	assert.Len(t, client.requests, 1)
	assert.Len(t, rec.entries, 1)
}

func TestSubmit_Preconditions(t *testing.T) {
	s, e, _, _ := newFixture(t)
	s.Store().Add(types.HttpRequest{ID: "blank", Method: "GET"})
	before := s.Snapshot()

	assert.ErrorIs(t, e.Execute(s, Command{Kind: KindSubmit}), ErrNoURL)
	assert.Equal(t, before, s.Snapshot())

	empty := app.NewState(store.New(nil))
	assert.ErrorIs(t, e.Execute(empty, Command{Kind: KindSubmit}), ErrNoRequest)
}

func TestStoreResponse_DeletedRequest(t *testing.T) {
	s, e, _, _ := newFixture(t)
	require.NoError(t, s.MarkInFlight("a"))
	require.NoError(t, e.Execute(s, Command{Kind: KindDeleteRequest}))

	require.NoError(t, e.Execute(s, StoreResponse("a", types.Response{Status: 200})))

	snap := s.Snapshot()
	assert.Empty(t, snap.InFlight)
	assert.Contains(t, snap.Log[len(snap.Log)-1], "discarded")
}

func TestStoreResponse_InternalError(t *testing.T) {
	s, e, _, _ := newFixture(t)

	require.NoError(t, e.Execute(s, StoreResponse("a", types.InternalErrorResponse(errors.New("refused")))))

	log := s.Log()
	assert.Equal(t, "request failed: refused", log[len(log)-1])
}

func TestRequestEditing(t *testing.T) {
	s, e, _, _ := newFixture(t)

	e.Apply(s, Map(keybinds.ActionCycleMethod))
	cur, _ := s.Store().Current()
	assert.Equal(t, "POST", cur.Method)

	e.Apply(s, Map(keybinds.ActionNewRequest))
	assert.Equal(t, 3, s.Store().Len())
	assert.Equal(t, 2, s.Snapshot().Selected)

	e.Apply(s, Map(keybinds.ActionDeleteRequest))
	assert.Equal(t, 2, s.Store().Len())

	e.Apply(s, Map(keybinds.ActionEditURL))
	assert.Equal(t, app.ModeInsert, s.Mode())
}

func TestEdit_EmptyStore(t *testing.T) {
	_, e, _, _ := newFixture(t)
	empty := app.NewState(store.New(nil))

	assert.ErrorIs(t, e.Execute(empty, Command{Kind: KindEdit, Field: app.FieldURL}), ErrNoRequest)
	assert.ErrorIs(t, e.Execute(empty, Command{Kind: KindDeleteRequest}), ErrNoRequest)
	assert.ErrorIs(t, e.Execute(empty, Command{Kind: KindCycleMethod}), ErrNoRequest)
	assert.Equal(t, app.ModeNormal, empty.Mode())
}

func TestSave(t *testing.T) {
	s, e, _, file := newFixture(t)

	require.NoError(t, e.Execute(s, Command{Kind: KindSave}))

	saved, err := storage.LoadRequests(file)
	require.NoError(t, err)
	assert.Equal(t, s.Store().Requests(), saved)
}

func TestSave_FailureLeavesStateUnchanged(t *testing.T) {
	s, e, _, file := newFixture(t)
	file.err = errors.New("disk full")
	before := s.Snapshot()

	err := e.Execute(s, Command{Kind: KindSave})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, before, s.Snapshot())
}

func TestCopy(t *testing.T) {
	s, e, _, _ := newFixture(t)
	var copied string
	e.clipboard = func(text string) error {
		copied = text
		return nil
	}

	assert.ErrorIs(t, e.Execute(s, Command{Kind: KindCopy}), ErrNoResponse)

	s.CompleteRequest("a", types.Response{Status: 200, Body: `{"name":"ana"}`})
	require.NoError(t, e.Execute(s, Command{Kind: KindCopy}))
	assert.Equal(t, `{"name":"ana"}`, copied)

	cur, _ := s.Store().Current()
	cur.Filter = "name"
	require.NoError(t, s.Store().Update(cur))
	require.NoError(t, e.Execute(s, Command{Kind: KindCopy}))
	assert.Equal(t, `"ana"`, copied)
}

func TestToggles(t *testing.T) {
	s, e, _, _ := newFixture(t)
	s.AppendLog("old")

	e.Apply(s, Map(keybinds.ActionToggleHeaders))
	e.Apply(s, Map(keybinds.ActionOpenHelp))
	e.Apply(s, Map(keybinds.ActionHideLog))

	snap := s.Snapshot()
	assert.True(t, snap.ShowHeaders)
	assert.True(t, snap.ShowHelp)
	assert.Equal(t, []string{"old"}, snap.Log, "hiding keeps the log")
	assert.Empty(t, snap.VisibleLog())
}

func TestUnknownKind(t *testing.T) {
	s, e, _, _ := newFixture(t)
	assert.Error(t, e.Execute(s, Command{Kind: Kind(999)}))
	assert.Equal(t, "unknown", Kind(999).String())
}
