package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talis-fb/RequestTUI/internal/types"
)

func sampleStore() *DataStore {
	return New([]types.HttpRequest{
		{ID: "a", Method: "GET", URL: "http://a"},
		{ID: "b", Method: "POST", URL: "http://b", Headers: map[string]string{"X": "1"}},
		{Method: "PUT", URL: "http://c"},
	})
}

func TestNew_AssignsMissingIDs(t *testing.T) {
	s := sampleStore()

	reqs := s.Requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, "a", reqs[0].ID)
	assert.NotEmpty(t, reqs[2].ID)
	assert.Equal(t, 0, s.Index())
}

func TestSelect_Clamps(t *testing.T) {
	s := sampleStore()

	s.Move(10)
	assert.Equal(t, 2, s.Index())
	s.Move(-10)
	assert.Equal(t, 0, s.Index())
	s.Select(1)
	cur, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "b", cur.ID)
}

func TestEmptyStore(t *testing.T) {
	s := New(nil)

	assert.Equal(t, -1, s.Index())
	_, err := s.Current()
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = s.DeleteCurrent()
	assert.ErrorIs(t, err, ErrEmpty)
	s.Move(1)
	assert.Equal(t, -1, s.Index())
}

func TestAddAndDelete(t *testing.T) {
	s := sampleStore()

	s.Add(NewRequest())
	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 3, s.Index())

	removed, err := s.DeleteCurrent()
	require.NoError(t, err)
	assert.Equal(t, "GET", removed.Method)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, s.Index(), "selection clamps to the new last item")
}

func TestResponses(t *testing.T) {
	s := sampleStore()

	assert.True(t, s.SetResponse("a", types.Response{Status: 200, Body: "ok"}))
	assert.False(t, s.SetResponse("gone", types.Response{Status: 200}))

	resp, ok := s.Response("a")
	require.True(t, ok)
	assert.Equal(t, 200, resp.Status)

	_, err := s.DeleteCurrent()
	require.NoError(t, err)
	_, ok = s.Response("a")
	assert.False(t, ok, "response removed with its request")
}

func TestClone_IsDeep(t *testing.T) {
	s := sampleStore()
	s.SetResponse("b", types.Response{Status: 201, Headers: map[string]string{"A": "1"}})

	c := s.Clone()

	req, _ := s.Current()
	req.Headers = map[string]string{"Y": "2"}
	require.NoError(t, s.Update(req))
	s.Select(1)
	cur, _ := s.Current()
	cur.Headers["X"] = "changed"

	orig := c.Requests()
	assert.Equal(t, "1", orig[1].Headers["X"])
	assert.Nil(t, orig[0].Headers)
	resp, _ := c.Response("b")
	assert.Equal(t, map[string]string{"A": "1"}, resp.Headers)
	assert.Equal(t, 0, c.Index())
}

func TestUpdate_UnknownID(t *testing.T) {
	s := sampleStore()
	assert.ErrorIs(t, s.Update(types.HttpRequest{ID: "nope"}), ErrEmpty)
}
