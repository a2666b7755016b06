package model

import "time"

// GameStatus represents the lifecycle phase of a match
type GameStatus string

const (
	GameStatusWaiting   GameStatus = "waiting"    // Session created, game not started
	GameStatusPlaying   GameStatus = "playing"    // Round in progress
	GameStatusRoundOver GameStatus = "round_over" // A player was hit, awaiting next round
	GameStatusGameOver  GameStatus = "game_over"  // Match ended
)

// NoTimeLimit means a turn may last indefinitely
const NoTimeLimit time.Duration = 0

// PlayerActions tracks what the current player has done this turn
type PlayerActions struct {
	HasAimed bool
	HasFired bool
}

// TurnState is the bookkeeping for the active turn
type TurnState struct {
	TurnStartTime time.Time     // Zero means no active turn timer
	TurnTimeLimit time.Duration // NoTimeLimit means unlimited
	PlayerActions PlayerActions
	TurnNumber    int // Starts at 1, increments on every switch
}

// Active returns true if a turn timer is running
func (t TurnState) Active() bool {
	return !t.TurnStartTime.IsZero()
}

// GameState is the authoritative match state. It contains only value types,
// so assigning it copies it; transitions always build a new value.
type GameState struct {
	CurrentPlayer PlayerID
	GameStatus    GameStatus
	RoundNumber   int
	Players       Players
	SessionScores Scores
	TurnState     TurnState

	RoundWinner   PlayerID  // NoPlayer unless GameStatus is round_over
	RoundEndTime  time.Time // Zero until a round ends
	IsRoundActive bool
	GameWinner    PlayerID // Set by the caller once the win limit is reached
}

// Player returns the player with the given id. Callers must pass a valid id.
func (s GameState) Player(id PlayerID) Player {
	return s.Players.Get(id)
}
