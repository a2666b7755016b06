package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/mcoot/mountainshoot/internal/api/request"
	"github.com/mcoot/mountainshoot/internal/api/response"
	"github.com/mcoot/mountainshoot/internal/dependencies/clock"
	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/services/game"
	"github.com/mcoot/mountainshoot/internal/sse"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	controller game.ControllerInterface
	hubManager *sse.HubManager
	clock      clock.Clock
	defaults   model.Settings
	logger     *slog.Logger
}

// NewSessionHandler creates a new session handler. hubManager may be nil, in
// which case streaming is unavailable.
func NewSessionHandler(
	controller game.ControllerInterface,
	hubManager *sse.HubManager,
	clock clock.Clock,
	defaults model.Settings,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		controller: controller,
		hubManager: hubManager,
		clock:      clock,
		defaults:   defaults,
		logger:     logger,
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

// decode reads a JSON body; an empty body leaves v untouched
func decode(r *http.Request, v any) error {
	if r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return NewInvalidRequestError("Invalid request body")
	}
	return nil
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	settings := h.defaults
	if req.WinLimit != nil {
		settings.WinLimit = *req.WinLimit
	}
	if req.TurnTimeLimitMS != nil {
		settings.TurnTimeLimit = time.Duration(*req.TurnTimeLimitMS) * time.Millisecond
	}
	if req.Difficulty != "" {
		settings.Difficulty = model.Difficulty(req.Difficulty)
	}

	session, err := h.controller.CreateSession(r.Context(), settings)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionFromModel(session, h.clock.Now()))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.controller.GetSession(r.Context(), sessionID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session, h.clock.Now()))
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := h.controller.DeleteSession(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	if h.hubManager != nil {
		h.hubManager.RemoveHub(id)
	}

	response.NoContent(w)
}

// Dispatch handles POST /api/v1/sessions/{id}/events
func (h *SessionHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req request.EventRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	ev, err := eventFromRequest(req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	session, err := h.controller.Dispatch(r.Context(), sessionID(r), ev)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromModel(session, h.clock.Now()))
}

// eventFromRequest builds an unstamped event; the store stamps it on dispatch
func eventFromRequest(req request.EventRequest) (model.Event, error) {
	t := model.EventType(req.Type)
	if !t.Known() {
		return model.Event{}, fmt.Errorf("%w: %q", model.ErrUnknownEvent, req.Type)
	}
	if req.DurationMS < 0 {
		return model.Event{}, fmt.Errorf("%w: duration_ms %d", model.ErrInvalidArgument, req.DurationMS)
	}

	return model.Event{
		Type:     t,
		PlayerID: model.PlayerID(req.PlayerID),
		WinnerID: model.PlayerID(req.WinnerID),
		Duration: time.Duration(req.DurationMS) * time.Millisecond,
	}, nil
}

// Shoot handles POST /api/v1/sessions/{id}/shots
func (h *SessionHandler) Shoot(w http.ResponseWriter, r *http.Request) {
	var req request.ShotRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	result, session, err := h.controller.ResolveShot(
		r.Context(),
		sessionID(r),
		model.Position{X: req.X, Y: req.Y},
		req.HitboxRadius,
	)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ShotResultFromModel(result, session, h.clock.Now()))
}

// Stream handles GET /api/v1/sessions/{id}/stream
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	if h.hubManager == nil {
		WriteError(w, NewInvalidRequestError("Streaming is not enabled"))
		return
	}

	id := sessionID(r)
	if _, err := h.controller.GetSession(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	// Register before taking the snapshot so no transition falls between them
	hub := h.hubManager.GetOrCreateHub(id)
	client := sse.NewClient()
	hub.Register(client)
	defer hub.Unregister(client)

	var encodeErr error
	err := h.controller.ObserveSession(r.Context(), id, func(session *model.Session) {
		initial, err := json.Marshal(response.StateEventFromModel(id, session.State, model.Event{}, h.clock.Now()))
		if err != nil {
			encodeErr = err
			return
		}
		hub.Send(client, sse.EventState, string(initial))
	})
	if err == nil {
		err = encodeErr
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	sse.ServeSSE(w, r, client)
}
