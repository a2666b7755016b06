package sse

import (
	"log/slog"
	"sync"

	"github.com/mcoot/mountainshoot/internal/model"
)

// EventState is the SSE event name carrying a state snapshot
const EventState = "state"

// StateEncoder renders a state change as the data of an SSE event
type StateEncoder func(id model.SessionID, state model.GameState, ev model.Event) ([]byte, error)

// HubManager owns one hub per observed session and receives state changes
// from the game controller
type HubManager struct {
	hubs   map[model.SessionID]*Hub
	mu     sync.RWMutex
	encode StateEncoder
	logger *slog.Logger
}

// NewHubManager creates a new HubManager
func NewHubManager(encode StateEncoder, logger *slog.Logger) *HubManager {
	return &HubManager{
		hubs:   make(map[model.SessionID]*Hub),
		encode: encode,
		logger: logger.With(slog.String("component", "sse")),
	}
}

// GetOrCreateHub returns the hub for a session, starting one if needed
func (m *HubManager) GetOrCreateHub(id model.SessionID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok {
		return hub
	}

	hub := NewHub(id, m.logger)
	m.hubs[id] = hub
	go hub.Run()
	return hub
}

// GetHub returns the hub for a session, or nil if nobody is observing it
func (m *HubManager) GetHub(id model.SessionID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[id]
}

// RemoveHub closes a session's hub, disconnecting its clients
func (m *HubManager) RemoveHub(id model.SessionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[id]; ok {
		hub.Close()
		delete(m.hubs, id)
		m.logger.Info("sse hub removed", slog.String("session_id", string(id)))
	}
}

// StateChanged broadcasts the new state to the session's observers
func (m *HubManager) StateChanged(id model.SessionID, state model.GameState, ev model.Event) {
	hub := m.GetHub(id)
	if hub == nil {
		return
	}

	data, err := m.encode(id, state, ev)
	if err != nil {
		m.logger.Error("failed to encode state",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()))
		return
	}
	hub.BroadcastEvent(EventState, string(data))
}
