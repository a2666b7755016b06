package model

import "time"

// SessionID uniquely identifies a hosted game session
type SessionID string

// Difficulty selects the terrain preset used by the client
type Difficulty string

const (
	DifficultyEasy          Difficulty = "easy"
	DifficultyMedium        Difficulty = "medium"
	DifficultyVeryDifficult Difficulty = "very_difficult"
)

// Valid returns true for a known difficulty
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyVeryDifficult:
		return true
	}
	return false
}

// Settings configures a session
type Settings struct {
	WinLimit      int           // Rounds needed to win the session; 0 disables the check
	TurnTimeLimit time.Duration // Applied at the start of every round; NoTimeLimit for none
	Difficulty    Difficulty
}

// DefaultSettings returns the settings used when a client supplies none
func DefaultSettings() Settings {
	return Settings{
		WinLimit:      3,
		TurnTimeLimit: NoTimeLimit,
		Difficulty:    DifficultyMedium,
	}
}

// Session is one hosted two-player game and its current state snapshot
type Session struct {
	ID        SessionID
	Settings  Settings
	State     GameState
	CreatedAt time.Time
	UpdatedAt time.Time
}
