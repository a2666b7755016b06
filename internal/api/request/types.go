package request

// CreateSessionRequest is the request body for creating a session.
// Omitted fields take the server defaults.
type CreateSessionRequest struct {
	WinLimit        *int   `json:"win_limit,omitempty"`
	TurnTimeLimitMS *int64 `json:"turn_time_limit_ms,omitempty"`
	Difficulty      string `json:"difficulty,omitempty"`
}

// EventRequest is the request body for dispatching an event
type EventRequest struct {
	Type       string `json:"type"`
	PlayerID   int    `json:"player_id,omitempty"`
	WinnerID   int    `json:"winner_id,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// ShotRequest is the request body for resolving where a projectile landed
type ShotRequest struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	HitboxRadius float64 `json:"hitbox_radius"`
}
