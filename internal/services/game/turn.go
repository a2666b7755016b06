package game

import (
	"fmt"
	"math"
	"time"

	"github.com/mcoot/mountainshoot/internal/model"
)

// Unbounded is returned by RemainingTurnTime when the turn has no limit
const Unbounded time.Duration = math.MaxInt64

// Action is something a player can do during their turn
type Action string

const (
	ActionAim  Action = "aim"
	ActionFire Action = "fire"
)

// TurnDuration returns how long the current turn has been running at now,
// or 0 if no turn timer is active
func TurnDuration(state model.GameState, now time.Time) time.Duration {
	if !state.TurnState.Active() {
		return 0
	}
	d := now.Sub(state.TurnState.TurnStartTime)
	if d < 0 {
		return 0
	}
	return d
}

// IsTurnExpired returns true if the turn has run past its time limit
func IsTurnExpired(state model.GameState, now time.Time) bool {
	limit := state.TurnState.TurnTimeLimit
	if limit <= model.NoTimeLimit {
		return false
	}
	return TurnDuration(state, now) > limit
}

// RemainingTurnTime returns the time left in the turn, never negative.
// Turns without a limit report Unbounded.
func RemainingTurnTime(state model.GameState, now time.Time) time.Duration {
	limit := state.TurnState.TurnTimeLimit
	if limit <= model.NoTimeLimit {
		return Unbounded
	}
	return max(0, limit-TurnDuration(state, now))
}

// FormatTurnDuration renders a duration as "5s" under a minute and "1:05" above.
// Negative durations render as "0s".
func FormatTurnDuration(d time.Duration) string {
	seconds := max(0, int64(d/time.Second))
	minutes := seconds / 60
	if minutes > 0 {
		return fmt.Sprintf("%d:%02d", minutes, seconds%60)
	}
	return fmt.Sprintf("%ds", seconds)
}

// CanPlayerPerformAction reports whether the player may take the action now.
// Aiming is unlimited; firing is allowed once per turn.
func CanPlayerPerformAction(state model.GameState, player model.PlayerID, action Action, now time.Time) bool {
	if state.CurrentPlayer != player {
		return false
	}
	if state.GameStatus != model.GameStatusPlaying {
		return false
	}
	if !state.TurnState.Active() {
		return false
	}
	if IsTurnExpired(state, now) {
		return false
	}

	switch action {
	case ActionAim:
		return true
	case ActionFire:
		return !state.TurnState.PlayerActions.HasFired
	default:
		return false
	}
}

// CanPlayerAct reports whether the current turn still accepts a shot,
// ignoring whose turn it is and the time limit
func CanPlayerAct(state model.GameState) bool {
	return state.GameStatus == model.GameStatusPlaying &&
		state.TurnState.Active() &&
		!state.TurnState.PlayerActions.HasFired
}

// IsCurrentPlayerTurn reports whether it is the player's turn and the turn
// still accepts a shot
func IsCurrentPlayerTurn(state model.GameState, player model.PlayerID) bool {
	return state.CurrentPlayer == player && CanPlayerAct(state)
}

// TurnStatusDescription returns a short human-readable summary of the turn
func TurnStatusDescription(state model.GameState) string {
	if state.GameStatus != model.GameStatusPlaying {
		return fmt.Sprintf("Game %s", state.GameStatus)
	}

	var phase string
	switch {
	case !state.TurnState.Active():
		phase = "Not started"
	case state.TurnState.PlayerActions.HasFired:
		phase = "Fired"
	case state.TurnState.PlayerActions.HasAimed:
		phase = "Aimed"
	default:
		phase = "Active"
	}

	return fmt.Sprintf("Player %d - Turn %d (%s)", state.CurrentPlayer, state.TurnState.TurnNumber, phase)
}

// CanSwitchTurn returns true once the current player has fired during play
func CanSwitchTurn(state model.GameState) bool {
	return state.GameStatus == model.GameStatusPlaying && state.TurnState.PlayerActions.HasFired
}
