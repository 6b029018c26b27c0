// Package api serves simulation runs over HTTP and websocket.
package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/udislau/ppe-agents/internal/sim"
)

// RunStore keeps finished runs in memory so clients can fetch histories
// after the simulate call returned a summary.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*sim.Result
}

func NewRunStore() *RunStore {
	return &RunStore{runs: map[string]*sim.Result{}}
}

// Put stores a result and returns its new run id.
func (s *RunStore) Put(res *sim.Result) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.runs[id] = res
	s.mu.Unlock()
	return id
}

func (s *RunStore) Get(id string) (*sim.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.runs[id]
	return res, ok
}
