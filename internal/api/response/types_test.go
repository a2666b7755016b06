package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mountainshoot/internal/dependencies/mocks"
	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/services/game"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func playing(limit time.Duration) model.GameState {
	s := game.NewGameState()
	s = game.Reduce(s, model.Event{Type: model.EventSetTurnTimeLimit, Duration: limit, Timestamp: t0})
	return game.Reduce(s, model.Event{Type: model.EventStartGame, Timestamp: t0})
}

func TestGameStateFromModel_NullsForUnset(t *testing.T) {
	resp := GameStateFromModel(game.NewGameState())

	assert.Nil(t, resp.TurnState.TurnStartTime)
	assert.Nil(t, resp.RoundWinner)
	assert.Nil(t, resp.RoundEndTime)
	assert.Nil(t, resp.GameWinner)
	assert.Equal(t, []int{0, 0}, resp.SessionScores)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"round_winner":null`)
	assert.Contains(t, string(data), `"turn_start_time":null`)
}

func TestGameStateFromModel_RoundOver(t *testing.T) {
	s := game.Reduce(playing(0), model.Event{Type: model.EventRecordHit, PlayerID: model.Player2, Timestamp: t0.Add(time.Second)})

	resp := GameStateFromModel(s)

	require.NotNil(t, resp.RoundWinner)
	assert.Equal(t, 1, *resp.RoundWinner)
	require.NotNil(t, resp.RoundEndTime)
	assert.Equal(t, t0.Add(time.Second), *resp.RoundEndTime)
	assert.Equal(t, []int{1, 0}, resp.SessionScores)
	assert.Equal(t, "round_over", resp.GameStatus)
}

func TestDerivedFromModel(t *testing.T) {
	t.Run("unlimited turn", func(t *testing.T) {
		d := DerivedFromModel(playing(0), t0.Add(65*time.Second))

		assert.Equal(t, "1:05", d.TurnDuration)
		assert.Equal(t, int64(65000), d.TurnDurationMS)
		assert.Nil(t, d.RemainingTurnTimeMS)
		assert.False(t, d.TurnExpired)
	})

	t.Run("limited turn", func(t *testing.T) {
		d := DerivedFromModel(playing(30*time.Second), t0.Add(10*time.Second))

		require.NotNil(t, d.RemainingTurnTimeMS)
		assert.Equal(t, int64(20000), *d.RemainingTurnTimeMS)
		assert.Equal(t, []Eligibility{
			{PlayerID: 1, CanAim: true, CanFire: true},
			{PlayerID: 2, CanAim: false, CanFire: false},
		}, d.Players)
	})

	t.Run("expired turn", func(t *testing.T) {
		d := DerivedFromModel(playing(30*time.Second), t0.Add(31*time.Second))

		require.NotNil(t, d.RemainingTurnTimeMS)
		assert.Equal(t, int64(0), *d.RemainingTurnTimeMS)
		assert.True(t, d.TurnExpired)
		assert.False(t, d.Players[0].CanAim)
	})
}

func TestNewStateEncoder(t *testing.T) {
	clk := mocks.NewMockClock(t0.Add(5 * time.Second))
	encode := NewStateEncoder(clk)

	data, err := encode("ABC123", playing(0), model.Event{Type: model.EventStartGame})
	require.NoError(t, err)

	var ev StateEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, "ABC123", ev.SessionID)
	assert.Equal(t, "start_game", ev.Event)
	assert.Equal(t, "playing", ev.State.GameStatus)
	assert.Equal(t, "5s", ev.Derived.TurnDuration)
}
