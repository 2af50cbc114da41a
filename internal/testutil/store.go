package testutil

import (
	"sync"

	"github.com/roach88/statebind/internal/ir"
)

// RecordingStore is an in-memory store that keeps every dispatched action.
// Set Err to make Dispatch fail after recording.
type RecordingStore struct {
	mu         sync.Mutex
	dispatched []ir.Action
	Err        error
}

// NewRecordingStore creates an empty RecordingStore.
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{}
}

// Dispatch records action and returns s.Err.
func (s *RecordingStore) Dispatch(action ir.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatched = append(s.dispatched, action)
	return s.Err
}

// Dispatched returns a copy of the recorded actions in dispatch order.
func (s *RecordingStore) Dispatched() []ir.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ir.Action, len(s.dispatched))
	copy(out, s.dispatched)
	return out
}
