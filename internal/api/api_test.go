package api_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mountainshoot/internal/api"
	"github.com/mcoot/mountainshoot/internal/api/apierr"
	"github.com/mcoot/mountainshoot/internal/api/response"
	"github.com/mcoot/mountainshoot/internal/factory"
	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/testutil"
)

// testServer wires the router to a test app with mocked clock and random
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	router := api.NewRouter(api.RouterConfig{
		Logger:          testutil.NopLogger(),
		Controller:      app.Controller,
		HubManager:      app.HubManager,
		Clock:           app.Clock,
		DefaultSettings: model.DefaultSettings(),
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeSession(t *testing.T, rr *httptest.ResponseRecorder) response.Session {
	t.Helper()
	var resp response.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return resp.Error
}

// createSession creates a session with the given id and body
func (ts *testServer) createSession(t *testing.T, id string, body any) response.Session {
	t.Helper()
	ts.app.MockRandom.QueueString(id)
	rr := ts.request(http.MethodPost, "/api/v1/sessions", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decodeSession(t, rr)
}

func (ts *testServer) event(id string, body map[string]any) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, "/api/v1/sessions/"+id+"/events", body)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestCreateSession_Defaults(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.createSession(t, "ABC123", nil)

	assert.Equal(t, "ABC123", resp.ID)
	assert.Equal(t, response.Settings{WinLimit: 3, TurnTimeLimitMS: 0, Difficulty: "medium"}, resp.Settings)
	assert.Equal(t, "waiting", resp.State.GameStatus)
	assert.Equal(t, 1, resp.State.CurrentPlayer)
	assert.Equal(t, 1, resp.State.RoundNumber)
	assert.Equal(t, []int{0, 0}, resp.State.SessionScores)
	require.Len(t, resp.State.Players, 2)
	assert.Equal(t, response.Position{X: 100, Y: 300}, resp.State.Players[0].Position)
	assert.Equal(t, response.Position{X: 700, Y: 300}, resp.State.Players[1].Position)
	assert.Nil(t, resp.State.TurnState.TurnStartTime)
	assert.Nil(t, resp.State.RoundWinner)
	assert.Nil(t, resp.State.GameWinner)
	assert.Equal(t, "Game waiting", resp.Derived.StatusDescription)
	assert.Nil(t, resp.Derived.RemainingTurnTimeMS, "unlimited turns report null")
}

func TestCreateSession_CustomSettings(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.createSession(t, "ABC123", map[string]any{
		"win_limit":          5,
		"turn_time_limit_ms": 30000,
		"difficulty":         "very_difficult",
	})

	assert.Equal(t, response.Settings{WinLimit: 5, TurnTimeLimitMS: 30000, Difficulty: "very_difficult"}, resp.Settings)
	assert.Equal(t, int64(30000), resp.State.TurnState.TurnTimeLimitMS)
}

func TestCreateSession_Invalid(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"difficulty": "nightmare"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidArgument, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions", map[string]any{"win_limit": -1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader("{not json"))
	rr = httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestGetSession_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/NOPE00", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeSessionNotFound, decodeError(t, rr).Code)
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC123", nil)

	rr := ts.request(http.MethodDelete, "/api/v1/sessions/ABC123", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/sessions/ABC123", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDispatch_TurnLifecycle(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC123", map[string]any{"turn_time_limit_ms": 30000})

	rr := ts.event("ABC123", map[string]any{"type": "start_game"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp := decodeSession(t, rr)
	assert.Equal(t, "playing", resp.State.GameStatus)
	assert.Equal(t, "Player 1 - Turn 1 (Active)", resp.Derived.StatusDescription)
	require.NotNil(t, resp.State.TurnState.TurnStartTime)
	require.NotNil(t, resp.Derived.RemainingTurnTimeMS)
	assert.Equal(t, int64(30000), *resp.Derived.RemainingTurnTimeMS)
	assert.Equal(t, []response.Eligibility{
		{PlayerID: 1, CanAim: true, CanFire: true},
		{PlayerID: 2, CanAim: false, CanFire: false},
	}, resp.Derived.Players)

	ts.app.MockClock.Advance(65 * time.Second / 10)

	rr = ts.event("ABC123", map[string]any{"type": "player_fired"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	resp = decodeSession(t, rr)
	assert.True(t, resp.State.TurnState.PlayerActions.HasFired)
	assert.True(t, resp.Derived.CanSwitchTurn)
	assert.Equal(t, "6s", resp.Derived.TurnDuration)
	assert.Equal(t, int64(6500), resp.Derived.TurnDurationMS)

	// firing twice is rejected and leaves the state alone
	rr = ts.event("ABC123", map[string]any{"type": "player_fired"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNotAllowed, decodeError(t, rr).Code)

	rr = ts.event("ABC123", map[string]any{"type": "switch_turn"})
	require.Equal(t, http.StatusOK, rr.Code)
	resp = decodeSession(t, rr)
	assert.Equal(t, 2, resp.State.CurrentPlayer)
	assert.Equal(t, 2, resp.State.TurnState.TurnNumber)
	assert.False(t, resp.State.TurnState.PlayerActions.HasFired)
}

func TestDispatch_Errors(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC123", nil)

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"unknown type", map[string]any{"type": "teleport"}, http.StatusBadRequest, apierr.CodeUnknownEvent},
		{"missing player", map[string]any{"type": "record_hit"}, http.StatusBadRequest, apierr.CodeInvalidPlayer},
		{"bad winner", map[string]any{"type": "end_round", "winner_id": 3}, http.StatusBadRequest, apierr.CodeInvalidPlayer},
		{"negative duration", map[string]any{"type": "set_turn_time_limit", "duration_ms": -1}, http.StatusBadRequest, apierr.CodeInvalidArgument},
		{"switch before start", map[string]any{"type": "switch_turn"}, http.StatusConflict, apierr.CodeNotAllowed},
		{"new round while waiting", map[string]any{"type": "start_new_round"}, http.StatusConflict, apierr.CodeNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.event("ABC123", tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rr).Code)
		})
	}

	rr := ts.event("NOPE00", map[string]any{"type": "start_game"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestShoot_HitEndsRound(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC123", map[string]any{"win_limit": 1})
	require.Equal(t, http.StatusOK, ts.event("ABC123", map[string]any{"type": "start_game"}).Code)
	require.Equal(t, http.StatusOK, ts.event("ABC123", map[string]any{"type": "player_fired"}).Code)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/ABC123/shots", map[string]any{
		"x": 705, "y": 295, "hitbox_radius": 20,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp response.ShotResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Hit)
	require.NotNil(t, resp.HitPlayer)
	assert.Equal(t, 2, *resp.HitPlayer)

	state := resp.Session.State
	assert.Equal(t, "game_over", state.GameStatus)
	assert.Equal(t, []int{1, 0}, state.SessionScores)
	assert.Nil(t, state.RoundWinner)
	require.NotNil(t, state.GameWinner)
	assert.Equal(t, 1, *state.GameWinner)
	assert.NotNil(t, state.RoundEndTime)
	assert.False(t, state.IsRoundActive)
}

func TestShoot_MissAndInvalid(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC123", nil)

	rr := ts.request(http.MethodPost, "/api/v1/sessions/ABC123/shots", map[string]any{"x": 1, "y": 1, "hitbox_radius": 20})
	assert.Equal(t, http.StatusConflict, rr.Code, "no shots before the game starts")

	require.Equal(t, http.StatusOK, ts.event("ABC123", map[string]any{"type": "start_game"}).Code)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC123/shots", map[string]any{"x": 400, "y": 0, "hitbox_radius": 20})
	require.Equal(t, http.StatusOK, rr.Code)
	var resp response.ShotResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(t, resp.Hit)
	assert.Nil(t, resp.HitPlayer)
	assert.Equal(t, "playing", resp.Session.State.GameStatus)

	rr = ts.request(http.MethodPost, "/api/v1/sessions/ABC123/shots", map[string]any{"x": 400, "y": 0, "hitbox_radius": -1})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestStream_SendsInitialAndUpdatedState(t *testing.T) {
	ts := newTestServer(t)
	ts.createSession(t, "ABC123", nil)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/sessions/ABC123/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() response.StateEvent {
		t.Helper()
		var name, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data += strings.TrimPrefix(line, "data: ")
			case line == "" && name != "":
				require.Equal(t, "state", name)
				var ev response.StateEvent
				require.NoError(t, json.Unmarshal([]byte(data), &ev))
				return ev
			}
		}
	}

	initial := readEvent()
	assert.Equal(t, "ABC123", initial.SessionID)
	assert.Equal(t, "waiting", initial.State.GameStatus)

	require.Eventually(t, func() bool {
		hub := ts.app.HubManager.GetHub("ABC123")
		return hub != nil && hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	require.Equal(t, http.StatusOK, ts.event("ABC123", map[string]any{"type": "start_game"}).Code)

	update := readEvent()
	assert.Equal(t, "start_game", update.Event)
	assert.Equal(t, "playing", update.State.GameStatus)
}

func TestStream_NotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/sessions/NOPE00/stream", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
