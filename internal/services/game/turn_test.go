package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/mountainshoot/internal/model"
)

func withLimit(s model.GameState, limit time.Duration) model.GameState {
	s.TurnState.TurnTimeLimit = limit
	return s
}

func TestTurnDuration(t *testing.T) {
	s := playingState()

	assert.Equal(t, time.Duration(0), TurnDuration(s, t0))
	assert.Equal(t, 12*time.Second, TurnDuration(s, t0.Add(12*time.Second)))
	assert.Equal(t, time.Duration(0), TurnDuration(s, t0.Add(-time.Second)), "clock behind turn start")
	assert.Equal(t, time.Duration(0), TurnDuration(NewGameState(), t0.Add(time.Hour)), "no active turn")
}

func TestIsTurnExpired(t *testing.T) {
	s := playingState()
	assert.False(t, IsTurnExpired(s, t0.Add(24*time.Hour)), "no limit never expires")

	s = withLimit(s, 30*time.Second)
	assert.False(t, IsTurnExpired(s, t0.Add(29*time.Second)))
	assert.False(t, IsTurnExpired(s, t0.Add(30*time.Second)), "exactly at limit")
	assert.True(t, IsTurnExpired(s, t0.Add(31*time.Second)))
}

func TestRemainingTurnTime(t *testing.T) {
	s := playingState()
	assert.Equal(t, Unbounded, RemainingTurnTime(s, t0.Add(time.Hour)))

	s = withLimit(s, 30*time.Second)
	assert.Equal(t, 30*time.Second, RemainingTurnTime(s, t0))
	assert.Equal(t, 10*time.Second, RemainingTurnTime(s, t0.Add(20*time.Second)))
	assert.Equal(t, time.Duration(0), RemainingTurnTime(s, t0.Add(45*time.Second)), "never negative")
}

func TestFormatTurnDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{999 * time.Millisecond, "0s"},
		{5000 * time.Millisecond, "5s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1:00"},
		{65000 * time.Millisecond, "1:05"},
		{10*time.Minute + 30*time.Second, "10:30"},
		{-5 * time.Second, "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTurnDuration(tt.in))
		})
	}
}

func TestCanPlayerPerformAction(t *testing.T) {
	active := playingState()

	t.Run("current player may aim and fire", func(t *testing.T) {
		assert.True(t, CanPlayerPerformAction(active, model.Player1, ActionAim, t0))
		assert.True(t, CanPlayerPerformAction(active, model.Player1, ActionFire, t0))
	})

	t.Run("other player may not act", func(t *testing.T) {
		assert.False(t, CanPlayerPerformAction(active, model.Player2, ActionAim, t0))
		assert.False(t, CanPlayerPerformAction(active, model.Player2, ActionFire, t0))
	})

	t.Run("not playing", func(t *testing.T) {
		for _, status := range []model.GameStatus{model.GameStatusWaiting, model.GameStatusRoundOver, model.GameStatusGameOver} {
			s := active
			s.GameStatus = status
			assert.False(t, CanPlayerPerformAction(s, model.Player1, ActionAim, t0), status)
		}
	})

	t.Run("no active turn", func(t *testing.T) {
		s := Reduce(active, event(model.EventEndTurn, t0))
		assert.False(t, CanPlayerPerformAction(s, model.Player1, ActionAim, t0))
	})

	t.Run("fire only once", func(t *testing.T) {
		s := Reduce(active, event(model.EventPlayerFired, t0))
		assert.False(t, CanPlayerPerformAction(s, model.Player1, ActionFire, t0))
		assert.True(t, CanPlayerPerformAction(s, model.Player1, ActionAim, t0))
	})

	t.Run("aim repeatedly", func(t *testing.T) {
		s := Reduce(active, event(model.EventPlayerAimed, t0))
		s = Reduce(s, event(model.EventPlayerAimed, t0))
		assert.True(t, CanPlayerPerformAction(s, model.Player1, ActionAim, t0))
	})

	t.Run("expired turn", func(t *testing.T) {
		s := withLimit(active, 10*time.Second)
		assert.True(t, CanPlayerPerformAction(s, model.Player1, ActionAim, t0.Add(5*time.Second)))
		assert.False(t, CanPlayerPerformAction(s, model.Player1, ActionAim, t0.Add(11*time.Second)))
	})

	t.Run("unknown action", func(t *testing.T) {
		assert.False(t, CanPlayerPerformAction(active, model.Player1, "dance", t0))
	})
}

func TestCanPlayerActAndIsCurrentPlayerTurn(t *testing.T) {
	s := playingState()
	assert.True(t, CanPlayerAct(s))
	assert.True(t, IsCurrentPlayerTurn(s, model.Player1))
	assert.False(t, IsCurrentPlayerTurn(s, model.Player2))

	fired := Reduce(s, event(model.EventPlayerFired, t0))
	assert.False(t, CanPlayerAct(fired))
	assert.False(t, IsCurrentPlayerTurn(fired, model.Player1))

	assert.False(t, CanPlayerAct(NewGameState()))
}

func TestTurnStatusDescription(t *testing.T) {
	assert.Equal(t, "Game waiting", TurnStatusDescription(NewGameState()))

	s := playingState()
	assert.Equal(t, "Player 1 - Turn 1 (Active)", TurnStatusDescription(s))

	s = Reduce(s, event(model.EventPlayerAimed, t0))
	assert.Equal(t, "Player 1 - Turn 1 (Aimed)", TurnStatusDescription(s))

	s = Reduce(s, event(model.EventPlayerFired, t0))
	assert.Equal(t, "Player 1 - Turn 1 (Fired)", TurnStatusDescription(s))

	s = Reduce(s, event(model.EventSwitchTurn, t0))
	assert.Equal(t, "Player 2 - Turn 2 (Active)", TurnStatusDescription(s))

	s = Reduce(s, event(model.EventEndTurn, t0))
	assert.Equal(t, "Player 2 - Turn 2 (Not started)", TurnStatusDescription(s))

	s = Reduce(s, hit(model.EventRecordHit, model.Player1, t0))
	assert.Equal(t, "Game round_over", TurnStatusDescription(s))
}

func TestCanSwitchTurn(t *testing.T) {
	statuses := []model.GameStatus{
		model.GameStatusWaiting,
		model.GameStatusPlaying,
		model.GameStatusRoundOver,
		model.GameStatusGameOver,
	}

	for _, status := range statuses {
		for _, fired := range []bool{false, true} {
			s := playingState()
			s.GameStatus = status
			s.TurnState.PlayerActions.HasFired = fired

			want := status == model.GameStatusPlaying && fired
			assert.Equal(t, want, CanSwitchTurn(s), "status=%s fired=%v", status, fired)
		}
	}
}
