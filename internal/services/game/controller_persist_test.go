package game

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/mountainshoot/internal/dependencies/mocks"
	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/storage/memory"
	"github.com/mcoot/mountainshoot/internal/testutil"
)

var errSaveFailed = errors.New("save failed")

// hookedStorage runs beforeSave ahead of every SaveSession and fails the
// save when it returns an error
type hookedStorage struct {
	*memory.Storage

	mu         sync.Mutex
	beforeSave func() error
}

func (h *hookedStorage) setBeforeSave(fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.beforeSave = fn
}

func (h *hookedStorage) SaveSession(ctx context.Context, session *model.Session) error {
	h.mu.Lock()
	fn := h.beforeSave
	h.mu.Unlock()

	if fn != nil {
		if err := fn(); err != nil {
			return err
		}
	}
	return h.Storage.SaveSession(ctx, session)
}

func newHookedController(t *testing.T, settings model.Settings) (*Controller, *hookedStorage, *recordingNotifier, model.SessionID) {
	t.Helper()

	store := &hookedStorage{Storage: memory.New()}
	random := mocks.NewMockRandom()
	random.QueueString("GAME01")
	notifier := &recordingNotifier{}
	controller := NewController(store, mocks.NewMockClock(t0), random, notifier, testutil.NopLogger())

	session, err := controller.CreateSession(context.Background(), settings)
	require.NoError(t, err)
	return controller, store, notifier, session.ID
}

func TestFailedSaveRollsBackDispatch(t *testing.T) {
	ctx := context.Background()
	controller, store, notifier, id := newHookedController(t, model.DefaultSettings())

	store.setBeforeSave(func() error { return errSaveFailed })
	_, err := controller.Dispatch(ctx, id, model.Event{Type: model.EventStartGame})
	require.ErrorIs(t, err, errSaveFailed)

	live, err := controller.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.GameStatusWaiting, live.State.GameStatus)

	stored, err := store.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, live.State, stored.State)
	assert.Empty(t, notifier.events)

	// the same event succeeds once storage recovers
	store.setBeforeSave(nil)
	session, err := controller.Dispatch(ctx, id, model.Event{Type: model.EventStartGame})
	require.NoError(t, err)
	assert.Equal(t, model.GameStatusPlaying, session.State.GameStatus)
	assert.Equal(t, []model.EventType{model.EventStartGame}, notifier.events)
}

func TestFailedSaveRollsBackGameEndingShot(t *testing.T) {
	ctx := context.Background()
	settings := model.DefaultSettings()
	settings.WinLimit = 1
	controller, store, notifier, id := newHookedController(t, settings)

	_, err := controller.Dispatch(ctx, id, model.Event{Type: model.EventStartGame})
	require.NoError(t, err)

	store.setBeforeSave(func() error { return errSaveFailed })
	_, _, err = controller.ResolveShot(ctx, id, model.Position{X: 700, Y: 300}, 20)
	require.ErrorIs(t, err, errSaveFailed)

	live, err := controller.GetSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.GameStatusPlaying, live.State.GameStatus)
	assert.Equal(t, model.NoPlayer, live.State.GameWinner)
	assert.Equal(t, model.Scores{}, live.State.SessionScores)
	assert.Equal(t, []model.EventType{model.EventStartGame}, notifier.events)

	store.setBeforeSave(nil)
	result, session, err := controller.ResolveShot(ctx, id, model.Position{X: 700, Y: 300}, 20)
	require.NoError(t, err)
	assert.True(t, result.Hit)
	assert.Equal(t, model.GameStatusGameOver, session.State.GameStatus)
	assert.Equal(t, []model.EventType{
		model.EventStartGame,
		model.EventRecordHit,
		model.EventDeclareGameWinner,
	}, notifier.events)
}

func TestDeleteWaitsForInFlightDispatch(t *testing.T) {
	ctx := context.Background()
	controller, store, _, id := newHookedController(t, model.DefaultSettings())

	saving := make(chan struct{})
	release := make(chan struct{})
	store.setBeforeSave(func() error {
		close(saving)
		<-release
		return nil
	})

	dispatched := make(chan error, 1)
	go func() {
		_, err := controller.Dispatch(ctx, id, model.Event{Type: model.EventStartGame})
		dispatched <- err
	}()
	<-saving
	store.setBeforeSave(nil)

	deleted := make(chan error, 1)
	go func() {
		deleted <- controller.DeleteSession(ctx, id)
	}()

	// give the delete time to reach the session before the save finishes
	time.Sleep(20 * time.Millisecond)
	close(release)

	require.NoError(t, <-dispatched)
	require.NoError(t, <-deleted)

	exists, err := store.SessionExists(ctx, id)
	require.NoError(t, err)
	assert.False(t, exists, "the in-flight save must not resurrect the session")

	_, err = controller.Dispatch(ctx, id, model.Event{Type: model.EventEndGame})
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}
