package game

import (
	"fmt"

	"github.com/mcoot/mountainshoot/internal/model"
)

// CheckEvent validates an event against the current state before it is
// reduced. It returns ErrInvalidPlayer or ErrInvalidArgument for malformed
// payloads and ErrActionNotAllowed when the rules forbid the transition.
// Unrecognized event types pass, since Reduce ignores them.
func CheckEvent(state model.GameState, ev model.Event) error {
	if ev.NeedsPlayer() {
		if err := model.ValidatePlayer(ev.PlayerID); err != nil {
			return err
		}
	}
	if ev.NeedsWinner() {
		if err := model.ValidatePlayer(ev.WinnerID); err != nil {
			return err
		}
	}

	switch ev.Type {
	case model.EventStartGame:
		return requireStatus(state, ev, model.GameStatusWaiting)

	case model.EventSetTurnTimeLimit:
		if ev.Duration < 0 {
			return fmt.Errorf("%w: turn time limit %s", model.ErrInvalidArgument, ev.Duration)
		}

	case model.EventPlayerAimed:
		if !CanPlayerPerformAction(state, state.CurrentPlayer, ActionAim, ev.Timestamp) {
			return notAllowed(state, ev, "player cannot aim")
		}

	case model.EventPlayerFired:
		if !CanPlayerPerformAction(state, state.CurrentPlayer, ActionFire, ev.Timestamp) {
			return notAllowed(state, ev, "player cannot fire")
		}

	case model.EventSwitchTurn:
		// An expired turn is forfeited even if the player never fired
		expired := state.GameStatus == model.GameStatusPlaying && IsTurnExpired(state, ev.Timestamp)
		if !CanSwitchTurn(state) && !expired {
			return notAllowed(state, ev, "current player has not fired")
		}

	case model.EventPlayerHit, model.EventRecordHit, model.EventEndRound:
		return requireStatus(state, ev, model.GameStatusPlaying)

	case model.EventStartNewRound, model.EventDeclareGameWinner:
		return requireStatus(state, ev, model.GameStatusRoundOver)
	}

	return nil
}

func requireStatus(state model.GameState, ev model.Event, want model.GameStatus) error {
	if state.GameStatus != want {
		return notAllowed(state, ev, fmt.Sprintf("requires status %s", want))
	}
	return nil
}

func notAllowed(state model.GameState, ev model.Event, reason string) error {
	return fmt.Errorf("%w: %s in status %s: %s", model.ErrActionNotAllowed, ev.Type, state.GameStatus, reason)
}
