package game

import (
	"fmt"
	"math"
	"time"

	"github.com/mcoot/mountainshoot/internal/model"
)

// CheckForHit returns true if the projectile lies within hitboxRadius of the
// player. A projectile exactly on the radius counts as a hit.
func CheckForHit(projectile, player model.Position, hitboxRadius float64) bool {
	return math.Hypot(projectile.X-player.X, projectile.Y-player.Y) <= hitboxRadius
}

// DeclareRoundWinner ends the round in favour of the player who was not hit.
// Session scores are left alone; pair it with UpdateScores.
func DeclareRoundWinner(state model.GameState, hitPlayer model.PlayerID, now time.Time) (model.GameState, error) {
	if err := model.ValidatePlayer(hitPlayer); err != nil {
		return state, err
	}
	return endRound(state, hitPlayer.Other(), now), nil
}

// UpdateScores credits the winner with one session win
func UpdateScores(state model.GameState, winner model.PlayerID) (model.GameState, error) {
	if err := model.ValidatePlayer(winner); err != nil {
		return state, err
	}
	state.SessionScores = state.SessionScores.Increment(winner)
	return state, nil
}

// CheckForGameEnd returns true once either player has at least winLimit wins
func CheckForGameEnd(state model.GameState, winLimit int) (bool, error) {
	if winLimit < 0 {
		return false, fmt.Errorf("%w: win limit %d", model.ErrInvalidArgument, winLimit)
	}
	for _, id := range model.PlayerIDs {
		if state.SessionScores.Of(id) >= winLimit {
			return true, nil
		}
	}
	return false, nil
}

// StartNewRound begins the next round with player 1 to act.
// Equivalent to dispatching EventStartNewRound.
func StartNewRound(state model.GameState, now time.Time) model.GameState {
	return startNewRound(state, now)
}

// EndCurrentRound ends the round with the given winner without touching scores.
// Equivalent to dispatching EventEndRound.
func EndCurrentRound(state model.GameState, winner model.PlayerID, now time.Time) (model.GameState, error) {
	if err := model.ValidatePlayer(winner); err != nil {
		return state, err
	}
	return endRound(state, winner, now), nil
}

// ResetGameSession clears scores and rounds while keeping player positions.
// Equivalent to dispatching EventResetGameSession.
func ResetGameSession(state model.GameState) model.GameState {
	return resetGameSession(state)
}

// DeclareGameWinner records the session winner, clears the round winner and
// ends the match.
// Equivalent to dispatching EventDeclareGameWinner.
func DeclareGameWinner(state model.GameState, winner model.PlayerID) (model.GameState, error) {
	if err := model.ValidatePlayer(winner); err != nil {
		return state, err
	}
	return declareGameWinner(state, winner), nil
}

// resolveHit is the single hit transition behind player_hit and record_hit
func resolveHit(state model.GameState, hitPlayer model.PlayerID, now time.Time) model.GameState {
	winner := hitPlayer.Other()
	state = endRound(state, winner, now)
	state.SessionScores = state.SessionScores.Increment(winner)
	return state
}

func endRound(state model.GameState, winner model.PlayerID, now time.Time) model.GameState {
	state.GameStatus = model.GameStatusRoundOver
	state.RoundWinner = winner
	state.RoundEndTime = now
	state.IsRoundActive = false
	state.TurnState.TurnStartTime = time.Time{}
	return state
}

func startNewRound(state model.GameState, now time.Time) model.GameState {
	state.GameStatus = model.GameStatusPlaying
	state.RoundNumber++
	state.CurrentPlayer = model.Player1
	for _, id := range model.PlayerIDs {
		p := state.Players.Get(id)
		p.Health = model.MaxHealth
		state.Players = state.Players.With(p)
	}
	state.TurnState = model.TurnState{
		TurnStartTime: now,
		TurnTimeLimit: model.NoTimeLimit,
		TurnNumber:    1,
	}
	state.RoundWinner = model.NoPlayer
	state.RoundEndTime = time.Time{}
	state.IsRoundActive = true
	return state
}

func resetGameSession(state model.GameState) model.GameState {
	state.GameStatus = model.GameStatusWaiting
	state.RoundNumber = 1
	state.CurrentPlayer = model.Player1
	for _, id := range model.PlayerIDs {
		p := state.Players.Get(id)
		p.Health = model.MaxHealth
		p.Score = 0
		state.Players = state.Players.With(p)
	}
	state.SessionScores = model.Scores{}
	state.TurnState = initialTurnState()
	state.RoundWinner = model.NoPlayer
	state.RoundEndTime = time.Time{}
	state.IsRoundActive = false
	state.GameWinner = model.NoPlayer
	return state
}

// declareGameWinner ends the match. The deciding round's winner moves into
// GameWinner; RoundWinner is only set while a round is over.
func declareGameWinner(state model.GameState, winner model.PlayerID) model.GameState {
	state.GameWinner = winner
	state.GameStatus = model.GameStatusGameOver
	state.RoundWinner = model.NoPlayer
	return state
}
