package model

import "fmt"

// PlayerID identifies one of the two players sharing a session
type PlayerID int

const (
	NoPlayer PlayerID = 0 // Sentinel for "no player" (e.g. no round winner yet)
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// PlayerIDs lists both players in turn order
var PlayerIDs = [2]PlayerID{Player1, Player2}

// Valid returns true if the id is 1 or 2
func (id PlayerID) Valid() bool {
	return id == Player1 || id == Player2
}

// Other returns the opposing player. Callers must pass a valid id.
func (id PlayerID) Other() PlayerID {
	if id == Player1 {
		return Player2
	}
	return Player1
}

// index maps a valid id to its slot in fixed two-player arrays
func (id PlayerID) index() int {
	return int(id) - 1
}

// ValidatePlayer returns ErrInvalidPlayer for ids outside {1, 2}
func ValidatePlayer(id PlayerID) error {
	if !id.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, id)
	}
	return nil
}

// Position is a point on the game board
type Position struct {
	X float64
	Y float64
}

// Player holds the per-round data of a participant
type Player struct {
	ID       PlayerID
	Position Position
	Health   int // 0-100, reset at round start
	Score    int  // Round-local points, distinct from session wins
}

// MaxHealth is the health every player starts a round with
const MaxHealth = 100

// Players is the fixed roster, indexed by PlayerID
type Players [2]Player

// Get returns the player with the given id. Callers must pass a valid id.
func (p Players) Get(id PlayerID) Player {
	return p[id.index()]
}

// With returns a copy of the roster with the given player replaced
func (p Players) With(player Player) Players {
	p[player.ID.index()] = player
	return p
}

// Scores holds the session win count for each player, indexed by PlayerID
type Scores [2]int

// Of returns the win count for a player. Callers must pass a valid id.
func (s Scores) Of(id PlayerID) int {
	return s[id.index()]
}

// Increment returns a copy with the given player's win count raised by one
func (s Scores) Increment(id PlayerID) Scores {
	s[id.index()]++
	return s
}
