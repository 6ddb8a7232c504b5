package usecase

import (
	"sync"
	"sync/atomic"
	"time"

	"station-alert-srv/internal/alert"
)

// alertState is the engine-owned state of one alert.
type alertState struct {
	obsMu     sync.Mutex
	station   string
	seen      bool
	lastValue int
	lastAt    time.Time

	// sendMu is held from the throttle decision to the last-sent write.
	sendMu   sync.Mutex
	lastSent *time.Time
	// durable is the last-sent value this engine wrote to the store.
	durable *time.Time

	phase atomic.Int32
}

// observe records value and reports whether it crossed threshold upward
// relative to the previous accepted value. The first observation is a
// baseline. Readings older than the last accepted one are stale and leave
// the state untouched.
func (s *alertState) observe(station string, value, threshold int, at time.Time) (crossed, stale bool) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	s.station = station
	if !s.seen {
		s.seen = true
		s.lastValue = value
		s.lastAt = at
		return false, false
	}
	if at.Before(s.lastAt) {
		return false, true
	}

	crossed = s.lastValue < threshold && value >= threshold
	s.lastValue = value
	s.lastAt = at
	return crossed, false
}

func (s *alertState) stationCode() string {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	return s.station
}

// effectiveLastSent returns the later of the engine's and the store's
// last-sent times. Callers hold sendMu.
func (s *alertState) effectiveLastSent(stored *time.Time) *time.Time {
	if s.lastSent == nil {
		return stored
	}
	if stored == nil || s.lastSent.After(*stored) {
		return s.lastSent
	}
	return stored
}

type stateStore struct {
	mu sync.RWMutex
	m  map[string]*alertState
}

func newStateStore() *stateStore {
	return &stateStore{m: make(map[string]*alertState)}
}

func (s *stateStore) get(alertID string) *alertState {
	s.mu.RLock()
	st, ok := s.m[alertID]
	s.mu.RUnlock()
	if ok {
		return st
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.m[alertID]; ok {
		return st
	}
	st = &alertState{}
	s.m[alertID] = st
	return st
}

func (s *stateStore) lookup(alertID string) (*alertState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[alertID]
	return st, ok
}

func (s *stateStore) forget(alertID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, alertID)
}

// prune drops the state of station alerts missing from active.
func (s *stateStore) prune(station string, active map[string]struct{}) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, st := range s.m {
		if _, ok := active[id]; ok {
			continue
		}
		if st.stationCode() == station {
			delete(s.m, id)
			n++
		}
	}
	return n
}

func (s *stateStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (uc *implUseCase) setPhase(alertID string, st *alertState, p alert.Phase) {
	st.phase.Store(int32(p))
	if uc.onPhase != nil {
		uc.onPhase(alertID, p)
	}
}

func (uc *implUseCase) AlertPhase(alertID string) alert.Phase {
	st, ok := uc.states.lookup(alertID)
	if !ok {
		return alert.PhaseIdle
	}
	return alert.Phase(st.phase.Load())
}
