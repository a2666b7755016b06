package response

import (
	"encoding/json"
	"time"

	"github.com/mcoot/mountainshoot/internal/dependencies/clock"
	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/services/game"
)

// Position represents a point on the board
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Player represents one player in API responses
type Player struct {
	ID       int      `json:"id"`
	Position Position `json:"position"`
	Health   int      `json:"health"`
	Score    int      `json:"score"`
}

// PlayerActions records what the current player has done this turn
type PlayerActions struct {
	HasAimed bool `json:"has_aimed"`
	HasFired bool `json:"has_fired"`
}

// TurnState represents the turn timer. TurnStartTime is null when no turn
// is running; a zero limit means unlimited.
type TurnState struct {
	TurnStartTime   *time.Time    `json:"turn_start_time"`
	TurnTimeLimitMS int64         `json:"turn_time_limit_ms"`
	PlayerActions   PlayerActions `json:"player_actions"`
	TurnNumber      int           `json:"turn_number"`
}

// GameState is the full game snapshot. Winner fields are null until decided.
type GameState struct {
	CurrentPlayer int        `json:"current_player"`
	GameStatus    string     `json:"game_status"`
	RoundNumber   int        `json:"round_number"`
	Players       []Player   `json:"players"`
	SessionScores []int      `json:"session_scores"`
	TurnState     TurnState  `json:"turn_state"`
	RoundWinner   *int       `json:"round_winner"`
	RoundEndTime  *time.Time `json:"round_end_time"`
	IsRoundActive bool       `json:"is_round_active"`
	GameWinner    *int       `json:"game_winner"`
}

// Eligibility reports what one player may do at the time of the response
type Eligibility struct {
	PlayerID int  `json:"player_id"`
	CanAim   bool `json:"can_aim"`
	CanFire  bool `json:"can_fire"`
}

// Derived holds values computed from the state at response time
type Derived struct {
	StatusDescription   string        `json:"status_description"`
	TurnDuration        string        `json:"turn_duration"`
	TurnDurationMS      int64         `json:"turn_duration_ms"`
	RemainingTurnTimeMS *int64        `json:"remaining_turn_time_ms"`
	TurnExpired         bool          `json:"turn_expired"`
	CanSwitchTurn       bool          `json:"can_switch_turn"`
	Players             []Eligibility `json:"players"`
}

// Settings represents session settings
type Settings struct {
	WinLimit        int    `json:"win_limit"`
	TurnTimeLimitMS int64  `json:"turn_time_limit_ms"`
	Difficulty      string `json:"difficulty"`
}

// Session is the response for session endpoints
type Session struct {
	ID        string    `json:"id"`
	Settings  Settings  `json:"settings"`
	State     GameState `json:"state"`
	Derived   Derived   `json:"derived"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ShotResult is the response for resolving a shot
type ShotResult struct {
	Hit       bool    `json:"hit"`
	HitPlayer *int    `json:"hit_player"`
	Session   Session `json:"session"`
}

// StateEvent is the payload of a "state" SSE event
type StateEvent struct {
	SessionID string    `json:"session_id"`
	Event     string    `json:"event,omitempty"`
	State     GameState `json:"state"`
	Derived   Derived   `json:"derived"`
}

func optionalPlayer(id model.PlayerID) *int {
	if id == model.NoPlayer {
		return nil
	}
	v := int(id)
	return &v
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// GameStateFromModel converts a model.GameState
func GameStateFromModel(s model.GameState) GameState {
	players := make([]Player, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, Player{
			ID:       int(p.ID),
			Position: Position{X: p.Position.X, Y: p.Position.Y},
			Health:   p.Health,
			Score:    p.Score,
		})
	}

	return GameState{
		CurrentPlayer: int(s.CurrentPlayer),
		GameStatus:    string(s.GameStatus),
		RoundNumber:   s.RoundNumber,
		Players:       players,
		SessionScores: []int{s.SessionScores.Of(model.Player1), s.SessionScores.Of(model.Player2)},
		TurnState: TurnState{
			TurnStartTime:   optionalTime(s.TurnState.TurnStartTime),
			TurnTimeLimitMS: s.TurnState.TurnTimeLimit.Milliseconds(),
			PlayerActions: PlayerActions{
				HasAimed: s.TurnState.PlayerActions.HasAimed,
				HasFired: s.TurnState.PlayerActions.HasFired,
			},
			TurnNumber: s.TurnState.TurnNumber,
		},
		RoundWinner:   optionalPlayer(s.RoundWinner),
		RoundEndTime:  optionalTime(s.RoundEndTime),
		IsRoundActive: s.IsRoundActive,
		GameWinner:    optionalPlayer(s.GameWinner),
	}
}

// DerivedFromModel evaluates the turn policy functions at now
func DerivedFromModel(s model.GameState, now time.Time) Derived {
	elapsed := game.TurnDuration(s, now)

	var remaining *int64
	if r := game.RemainingTurnTime(s, now); r != game.Unbounded {
		ms := r.Milliseconds()
		remaining = &ms
	}

	eligibility := make([]Eligibility, 0, len(model.PlayerIDs))
	for _, id := range model.PlayerIDs {
		eligibility = append(eligibility, Eligibility{
			PlayerID: int(id),
			CanAim:   game.CanPlayerPerformAction(s, id, game.ActionAim, now),
			CanFire:  game.CanPlayerPerformAction(s, id, game.ActionFire, now),
		})
	}

	return Derived{
		StatusDescription:   game.TurnStatusDescription(s),
		TurnDuration:        game.FormatTurnDuration(elapsed),
		TurnDurationMS:      elapsed.Milliseconds(),
		RemainingTurnTimeMS: remaining,
		TurnExpired:         game.IsTurnExpired(s, now),
		CanSwitchTurn:       game.CanSwitchTurn(s),
		Players:             eligibility,
	}
}

// SessionFromModel converts a model.Session, deriving values at now
func SessionFromModel(s *model.Session, now time.Time) Session {
	return Session{
		ID: string(s.ID),
		Settings: Settings{
			WinLimit:        s.Settings.WinLimit,
			TurnTimeLimitMS: s.Settings.TurnTimeLimit.Milliseconds(),
			Difficulty:      string(s.Settings.Difficulty),
		},
		State:     GameStateFromModel(s.State),
		Derived:   DerivedFromModel(s.State, now),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ShotResultFromModel converts a game.ShotResult and the session after it
func ShotResultFromModel(r game.ShotResult, s *model.Session, now time.Time) ShotResult {
	return ShotResult{
		Hit:       r.Hit,
		HitPlayer: optionalPlayer(r.HitPlayer),
		Session:   SessionFromModel(s, now),
	}
}

// StateEventFromModel builds the SSE payload for a state change
func StateEventFromModel(id model.SessionID, s model.GameState, ev model.Event, now time.Time) StateEvent {
	return StateEvent{
		SessionID: string(id),
		Event:     string(ev.Type),
		State:     GameStateFromModel(s),
		Derived:   DerivedFromModel(s, now),
	}
}

// NewStateEncoder returns an encoder for SSE state events, evaluating
// derived values with clk
func NewStateEncoder(clk clock.Clock) func(model.SessionID, model.GameState, model.Event) ([]byte, error) {
	return func(id model.SessionID, s model.GameState, ev model.Event) ([]byte, error) {
		return json.Marshal(StateEventFromModel(id, s, ev, clk.Now()))
	}
}
