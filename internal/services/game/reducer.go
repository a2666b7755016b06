package game

import (
	"time"

	"github.com/mcoot/mountainshoot/internal/model"
)

// Starting positions on the 800x600 board
var (
	player1Start = model.Position{X: 100, Y: 300}
	player2Start = model.Position{X: 700, Y: 300}
)

// NewGameState returns the state a session starts with
func NewGameState() model.GameState {
	return model.GameState{
		CurrentPlayer: model.Player1,
		GameStatus:    model.GameStatusWaiting,
		RoundNumber:   1,
		Players: model.Players{
			{ID: model.Player1, Position: player1Start, Health: model.MaxHealth},
			{ID: model.Player2, Position: player2Start, Health: model.MaxHealth},
		},
		TurnState:     initialTurnState(),
		RoundWinner:   model.NoPlayer,
		IsRoundActive: false,
		GameWinner:    model.NoPlayer,
	}
}

func initialTurnState() model.TurnState {
	return model.TurnState{
		TurnTimeLimit: model.NoTimeLimit,
		TurnNumber:    1,
	}
}

// Reduce applies an event to a state and returns the resulting state.
//
// Reduce is total: unrecognized event types and events with an invalid
// player payload return the state unchanged. It performs no eligibility
// checks; Store.Dispatch runs CheckEvent first. The event's Timestamp is
// the "now" for every field the transition stamps.
func Reduce(state model.GameState, ev model.Event) model.GameState {
	now := ev.Timestamp

	switch ev.Type {
	case model.EventStartGame:
		state.GameStatus = model.GameStatusPlaying
		state.TurnState.TurnStartTime = now

	case model.EventEndGame:
		state.GameStatus = model.GameStatusGameOver

	case model.EventStartTurn, model.EventResetTurn:
		state.TurnState = restartTurn(state.TurnState, now)

	case model.EventEndTurn:
		state.TurnState.TurnStartTime = time.Time{}

	case model.EventSwitchTurn:
		state.CurrentPlayer = state.CurrentPlayer.Other()
		state.TurnState = restartTurn(state.TurnState, now)
		state.TurnState.TurnNumber++

	case model.EventSetTurnTimeLimit:
		if ev.Duration < 0 {
			return state
		}
		state.TurnState.TurnTimeLimit = ev.Duration

	case model.EventPlayerAimed:
		state.TurnState.PlayerActions.HasAimed = true

	case model.EventPlayerFired:
		state.TurnState.PlayerActions.HasFired = true

	case model.EventPlayerHit, model.EventRecordHit:
		if !ev.PlayerID.Valid() {
			return state
		}
		return resolveHit(state, ev.PlayerID, now)

	case model.EventEndRound:
		if !ev.WinnerID.Valid() {
			return state
		}
		return endRound(state, ev.WinnerID, now)

	case model.EventStartNewRound:
		return startNewRound(state, now)

	case model.EventDeclareGameWinner:
		if !ev.WinnerID.Valid() {
			return state
		}
		return declareGameWinner(state, ev.WinnerID)

	case model.EventResetGame:
		return NewGameState()

	case model.EventResetGameSession:
		return resetGameSession(state)
	}

	return state
}

// restartTurn starts the timer afresh and clears the player's actions
func restartTurn(turn model.TurnState, now time.Time) model.TurnState {
	turn.TurnStartTime = now
	turn.PlayerActions = model.PlayerActions{}
	return turn
}
