package store

import (
	"errors"
	"slices"

	"github.com/google/uuid"

	"github.com/talis-fb/RequestTUI/internal/types"
)

// ErrEmpty is returned by operations that need a selected request
var ErrEmpty = errors.New("no request selected")

// DataStore holds the request collection, the selected request and the
// last response of each request
type DataStore struct {
	requests  []types.HttpRequest
	current   int
	responses map[string]types.Response
}

// New creates a store from an existing collection. Requests without an ID
// are given one.
func New(requests []types.HttpRequest) *DataStore {
	s := &DataStore{
		requests:  make([]types.HttpRequest, 0, len(requests)),
		responses: make(map[string]types.Response),
	}
	for _, r := range requests {
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		s.requests = append(s.requests, r.Clone())
	}
	return s
}

// NewRequest returns a blank GET request with a fresh ID
func NewRequest() types.HttpRequest {
	return types.HttpRequest{
		ID:      uuid.NewString(),
		Method:  types.Methods[0],
		Headers: map[string]string{},
	}
}

// Len returns the number of requests
func (s *DataStore) Len() int {
	return len(s.requests)
}

// Index returns the selected position, -1 when empty
func (s *DataStore) Index() int {
	if len(s.requests) == 0 {
		return -1
	}
	return s.current
}

// Requests returns a deep copy of the collection
func (s *DataStore) Requests() []types.HttpRequest {
	out := make([]types.HttpRequest, len(s.requests))
	for i, r := range s.requests {
		out[i] = r.Clone()
	}
	return out
}

// Current returns a copy of the selected request
func (s *DataStore) Current() (types.HttpRequest, error) {
	if len(s.requests) == 0 {
		return types.HttpRequest{}, ErrEmpty
	}
	return s.requests[s.current].Clone(), nil
}

// Select moves the selection, clamping to the collection bounds
func (s *DataStore) Select(i int) {
	if len(s.requests) == 0 {
		s.current = 0
		return
	}
	s.current = max(0, min(i, len(s.requests)-1))
}

// Move shifts the selection by delta
func (s *DataStore) Move(delta int) {
	s.Select(s.current + delta)
}

// Add appends a request and selects it
func (s *DataStore) Add(r types.HttpRequest) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	s.requests = append(s.requests, r.Clone())
	s.current = len(s.requests) - 1
}

// Update replaces the request with the same ID
func (s *DataStore) Update(r types.HttpRequest) error {
	for i := range s.requests {
		if s.requests[i].ID == r.ID {
			s.requests[i] = r.Clone()
			return nil
		}
	}
	return ErrEmpty
}

// DeleteCurrent removes the selected request and its response
func (s *DataStore) DeleteCurrent() (types.HttpRequest, error) {
	if len(s.requests) == 0 {
		return types.HttpRequest{}, ErrEmpty
	}
	removed := s.requests[s.current]
	s.requests = slices.Delete(s.requests, s.current, s.current+1)
	delete(s.responses, removed.ID)
	s.Select(s.current)
	return removed, nil
}

// SetResponse stores the response for request id. Responses for requests
// deleted in the meantime are dropped.
func (s *DataStore) SetResponse(id string, resp types.Response) bool {
	for _, r := range s.requests {
		if r.ID == id {
			s.responses[id] = resp.Clone()
			return true
		}
	}
	return false
}

// Response returns the stored response for request id
func (s *DataStore) Response(id string) (types.Response, bool) {
	resp, ok := s.responses[id]
	if !ok {
		return types.Response{}, false
	}
	return resp.Clone(), true
}

// Clone returns a deep copy sharing no memory with s
func (s *DataStore) Clone() *DataStore {
	c := &DataStore{
		requests:  s.Requests(),
		current:   s.current,
		responses: make(map[string]types.Response, len(s.responses)),
	}
	for id, resp := range s.responses {
		c.responses[id] = resp.Clone()
	}
	return c
}
