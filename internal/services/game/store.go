package game

import (
	"sync"

	"github.com/mcoot/mountainshoot/internal/dependencies/clock"
	"github.com/mcoot/mountainshoot/internal/model"
)

// Observer is called with each new state and the event that produced it.
// Observers run while the store is locked and must not dispatch.
type Observer func(state model.GameState, ev model.Event)

// Store owns the state of one game session. Transitions are serialized:
// each event is checked, reduced and observed before the next is considered.
type Store struct {
	mu        sync.RWMutex
	state     model.GameState
	clock     clock.Clock
	observers map[int]Observer
	nextObsID int
}

// NewStore creates a store holding the given initial state
func NewStore(initial model.GameState, clock clock.Clock) *Store {
	return &Store{
		state:     initial,
		clock:     clock,
		observers: make(map[int]Observer),
	}
}

// State returns the current snapshot
func (s *Store) State() model.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch stamps the event with the store's clock if it carries no
// timestamp, checks it with CheckEvent and applies it. On error the state is
// unchanged and the current snapshot is returned.
func (s *Store) Dispatch(ev model.Event) (model.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Timestamp.IsZero() {
		ev.Timestamp = s.clock.Now()
	}

	if err := CheckEvent(s.state, ev); err != nil {
		return s.state, err
	}

	s.state = Reduce(s.state, ev)

	for _, obs := range s.observers {
		obs(s.state, ev)
	}

	return s.state, nil
}

// restore puts back a snapshot taken before a rejected batch of events.
// Observers are not told; they already saw the events being undone.
func (s *Store) restore(state model.GameState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(obs Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = obs

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}
