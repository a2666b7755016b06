package model

import "time"

// EventType identifies a state transition request
type EventType string

const (
	// Match lifecycle
	EventStartGame EventType = "start_game"
	EventEndGame   EventType = "end_game"

	// Turn management
	EventStartTurn        EventType = "start_turn"
	EventEndTurn          EventType = "end_turn"
	EventSwitchTurn       EventType = "switch_turn"
	EventResetTurn        EventType = "reset_turn"
	EventSetTurnTimeLimit EventType = "set_turn_time_limit"

	// Player actions
	EventPlayerAimed EventType = "player_aimed"
	EventPlayerFired EventType = "player_fired"

	// Round and session
	EventPlayerHit         EventType = "player_hit"
	EventRecordHit         EventType = "record_hit"
	EventEndRound          EventType = "end_round"
	EventStartNewRound     EventType = "start_new_round"
	EventDeclareGameWinner EventType = "declare_game_winner"
	EventResetGame         EventType = "reset_game"
	EventResetGameSession  EventType = "reset_game_session"
)

// EventTypes lists every recognized event type
var EventTypes = []EventType{
	EventStartGame,
	EventEndGame,
	EventStartTurn,
	EventEndTurn,
	EventSwitchTurn,
	EventResetTurn,
	EventSetTurnTimeLimit,
	EventPlayerAimed,
	EventPlayerFired,
	EventPlayerHit,
	EventRecordHit,
	EventEndRound,
	EventStartNewRound,
	EventDeclareGameWinner,
	EventResetGame,
	EventResetGameSession,
}

// Known returns true if the reducer handles this event type
func (t EventType) Known() bool {
	for _, known := range EventTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Event is a request to advance the game state
type Event struct {
	Type      EventType
	Timestamp time.Time // "now" for any field the transition stamps

	PlayerID PlayerID      // The hit player, for player_hit and record_hit
	WinnerID PlayerID      // For end_round and declare_game_winner
	Duration time.Duration // For set_turn_time_limit
}

// NeedsPlayer returns true if the event carries a PlayerID payload
func (e Event) NeedsPlayer() bool {
	return e.Type == EventPlayerHit || e.Type == EventRecordHit
}

// NeedsWinner returns true if the event carries a WinnerID payload
func (e Event) NeedsWinner() bool {
	return e.Type == EventEndRound || e.Type == EventDeclareGameWinner
}
