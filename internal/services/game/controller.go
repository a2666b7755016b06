package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/mountainshoot/internal/dependencies/clock"
	"github.com/mcoot/mountainshoot/internal/dependencies/random"
	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/storage"
)

const sessionIDLength = 6

// Notifier receives every state change of every hosted session
type Notifier interface {
	StateChanged(id model.SessionID, state model.GameState, ev model.Event)
}

// ShotResult reports the outcome of resolving a projectile position
type ShotResult struct {
	Hit       bool
	HitPlayer model.PlayerID // NoPlayer when Hit is false
}

// Controller hosts game sessions: one Store per session, persisted to
// storage after every accepted event. The notifier only hears about
// transitions that were saved.
type Controller struct {
	storage  storage.Storage
	clock    clock.Clock
	random   random.Random
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[model.SessionID]*liveSession
}

// liveSession pairs a store with the session metadata. mu serializes
// controller operations that dispatch more than one event.
type liveSession struct {
	mu      sync.Mutex
	session model.Session
	store   *Store
	deleted bool
}

// transition is one accepted event and the state it produced
type transition struct {
	state model.GameState
	ev    model.Event
}

// NewController creates a new Controller. notifier may be nil.
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	notifier Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:  storage,
		clock:    clock,
		random:   random,
		notifier: notifier,
		logger:   logger,
		sessions: make(map[model.SessionID]*liveSession),
	}
}

// ValidateSettings rejects settings no session can be created with
func ValidateSettings(settings model.Settings) error {
	if settings.WinLimit < 0 {
		return fmt.Errorf("%w: win limit %d", model.ErrInvalidArgument, settings.WinLimit)
	}
	if settings.TurnTimeLimit < 0 {
		return fmt.Errorf("%w: turn time limit %s", model.ErrInvalidArgument, settings.TurnTimeLimit)
	}
	if !settings.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", model.ErrInvalidArgument, settings.Difficulty)
	}
	return nil
}

// CreateSession starts hosting a new session in the waiting state
func (c *Controller) CreateSession(ctx context.Context, settings model.Settings) (*model.Session, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}

	id, err := c.newSessionID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	state := NewGameState()
	state.TurnState.TurnTimeLimit = settings.TurnTimeLimit

	session := model.Session{
		ID:        id,
		Settings:  settings,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveSession(ctx, &session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.mu.Lock()
	c.sessions[id] = c.host(session)
	c.mu.Unlock()

	c.logger.Info("session created",
		slog.String("session_id", string(id)),
		slog.Int("win_limit", settings.WinLimit),
		slog.Duration("turn_time_limit", settings.TurnTimeLimit),
		slog.String("difficulty", string(settings.Difficulty)),
	)

	return &session, nil
}

// newSessionID picks a code not already in storage
func (c *Controller) newSessionID(ctx context.Context) (model.SessionID, error) {
	const attempts = 5
	for range attempts {
		id := model.SessionID(c.random.String(sessionIDLength, random.CodeAlphabet))
		if id == "" {
			continue
		}
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a session id after %d attempts", attempts)
}

// host wraps a session in a live store
func (c *Controller) host(session model.Session) *liveSession {
	return &liveSession{
		session: session,
		store:   NewStore(session.State, c.clock),
	}
}

// live returns the hosted session, restoring it from storage if this
// process has not seen it yet
func (c *Controller) live(ctx context.Context, id model.SessionID) (*liveSession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if live, ok := c.sessions[id]; ok {
		return live, nil
	}

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	live := c.host(*session)
	c.sessions[id] = live
	c.logger.Info("session restored", slog.String("session_id", string(id)))
	return live, nil
}

// GetSession returns a snapshot of the session
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	live, err := c.live(ctx, id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.deleted {
		return nil, model.ErrSessionNotFound
	}
	return live.snapshot(), nil
}

// ObserveSession calls fn with a snapshot of the session. No transition is
// committed or notified until fn returns, so a notification sent from fn is
// ordered with the notifier's.
func (c *Controller) ObserveSession(ctx context.Context, id model.SessionID, fn func(*model.Session)) error {
	live, err := c.live(ctx, id)
	if err != nil {
		return err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.deleted {
		return model.ErrSessionNotFound
	}
	fn(live.snapshot())
	return nil
}

// Dispatch applies an event to the session and persists the result.
// Rounds that end push the session to game over once a player reaches the
// win limit. New rounds and resets get the session's turn time limit back.
func (c *Controller) Dispatch(ctx context.Context, id model.SessionID, ev model.Event) (*model.Session, error) {
	live, err := c.live(ctx, id)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.deleted {
		return nil, model.ErrSessionNotFound
	}

	return c.commit(ctx, live, ev)
}

// ResolveShot checks a projectile against the opponent, then the shooter,
// and records a hit on the first player it lands on
func (c *Controller) ResolveShot(ctx context.Context, id model.SessionID, projectile model.Position, hitboxRadius float64) (ShotResult, *model.Session, error) {
	if hitboxRadius < 0 {
		return ShotResult{}, nil, fmt.Errorf("%w: hitbox radius %v", model.ErrInvalidArgument, hitboxRadius)
	}

	live, err := c.live(ctx, id)
	if err != nil {
		return ShotResult{}, nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	if live.deleted {
		return ShotResult{}, nil, model.ErrSessionNotFound
	}

	state := live.store.State()
	if state.GameStatus != model.GameStatusPlaying {
		return ShotResult{}, nil, fmt.Errorf("%w: shot in status %s", model.ErrActionNotAllowed, state.GameStatus)
	}

	shooter := state.CurrentPlayer
	for _, target := range []model.PlayerID{shooter.Other(), shooter} {
		if !CheckForHit(projectile, state.Player(target).Position, hitboxRadius) {
			continue
		}

		session, err := c.commit(ctx, live, model.Event{Type: model.EventRecordHit, PlayerID: target})
		if err != nil {
			return ShotResult{}, nil, err
		}
		return ShotResult{Hit: true, HitPlayer: target}, session, nil
	}

	return ShotResult{HitPlayer: model.NoPlayer}, live.snapshot(), nil
}

// DeleteSession stops hosting the session and removes it from storage.
// It waits for an in-flight operation on the session, and later ones fail
// with ErrSessionNotFound.
func (c *Controller) DeleteSession(ctx context.Context, id model.SessionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if live, ok := c.sessions[id]; ok {
		live.mu.Lock()
		live.deleted = true
		live.mu.Unlock()
		delete(c.sessions, id)
	}

	if err := c.storage.DeleteSession(ctx, id); err != nil {
		return err
	}

	c.logger.Info("session deleted", slog.String("session_id", string(id)))
	return nil
}

// commit applies the event, saves the result and only then notifies.
// When any step fails the store is rolled back to its prior state.
// Callers hold live.mu.
func (c *Controller) commit(ctx context.Context, live *liveSession, ev model.Event) (*model.Session, error) {
	prev := live.store.State()

	changes, err := c.apply(live, ev)
	if err != nil {
		live.store.restore(prev)
		return nil, err
	}

	session, err := c.persist(ctx, live)
	if err != nil {
		live.store.restore(prev)
		return nil, err
	}

	if c.notifier != nil {
		for _, t := range changes {
			c.notifier.StateChanged(live.session.ID, t.state, t.ev)
		}
	}
	return session, nil
}

// dispatch stamps and applies one event to the live store
func (c *Controller) dispatch(live *liveSession, ev model.Event, changes []transition) ([]transition, error) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = c.clock.Now()
	}
	state, err := live.store.Dispatch(ev)
	if err != nil {
		return changes, err
	}
	return append(changes, transition{state: state, ev: ev}), nil
}

// apply dispatches the event plus the follow-up events the session settings
// imply, returning every accepted transition. Callers hold live.mu.
func (c *Controller) apply(live *liveSession, ev model.Event) ([]transition, error) {
	id := slog.String("session_id", string(live.session.ID))
	settings := live.session.Settings

	changes, err := c.dispatch(live, ev, nil)
	if err != nil {
		c.logger.Warn("event rejected",
			id,
			slog.String("event", string(ev.Type)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	state := changes[0].state

	switch ev.Type {
	case model.EventStartNewRound, model.EventResetGame, model.EventResetGameSession:
		if settings.TurnTimeLimit > model.NoTimeLimit {
			changes, err = c.dispatch(live, model.Event{
				Type:     model.EventSetTurnTimeLimit,
				Duration: settings.TurnTimeLimit,
			}, changes)
			if err != nil {
				return nil, err
			}
		}

	case model.EventPlayerHit, model.EventRecordHit, model.EventEndRound:
		c.logger.Info("round over",
			id,
			slog.Int("round", state.RoundNumber),
			slog.Int("winner", int(state.RoundWinner)),
			slog.Int("player1_wins", state.SessionScores.Of(model.Player1)),
			slog.Int("player2_wins", state.SessionScores.Of(model.Player2)),
		)

		if settings.WinLimit == 0 {
			return changes, nil
		}
		over, err := CheckForGameEnd(state, settings.WinLimit)
		if err != nil {
			return nil, err
		}
		if !over {
			return changes, nil
		}
		changes, err = c.dispatch(live, model.Event{
			Type:     model.EventDeclareGameWinner,
			WinnerID: state.RoundWinner,
		}, changes)
		if err != nil {
			return nil, err
		}
		c.logger.Info("game over",
			id,
			slog.Int("winner", int(state.RoundWinner)),
			slog.Int("rounds", state.RoundNumber),
		)
	}

	return changes, nil
}

// persist saves the current snapshot, keeping the session metadata unchanged
// if the save fails. Callers hold live.mu.
func (c *Controller) persist(ctx context.Context, live *liveSession) (*model.Session, error) {
	session := live.session
	session.State = live.store.State()
	session.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveSession(ctx, &session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(session.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	live.session = session
	return live.snapshot(), nil
}

// snapshot copies the session with the store's latest state
func (l *liveSession) snapshot() *model.Session {
	session := l.session
	session.State = l.store.State()
	return &session
}

// Interface for dependency injection
type ControllerInterface interface {
	CreateSession(ctx context.Context, settings model.Settings) (*model.Session, error)
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	ObserveSession(ctx context.Context, id model.SessionID, fn func(*model.Session)) error
	Dispatch(ctx context.Context, id model.SessionID, ev model.Event) (*model.Session, error)
	ResolveShot(ctx context.Context, id model.SessionID, projectile model.Position, hitboxRadius float64) (ShotResult, *model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
}

var _ ControllerInterface = (*Controller)(nil)
