// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/mountainshoot/internal/model"
	"github.com/mcoot/mountainshoot/internal/storage"
)

// Suite runs the storage contract against Storage. Backends embed it and
// assign Storage in their SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

// SampleSession returns a mid-round session with every field populated
func SampleSession(id model.SessionID) *model.Session {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Session{
		ID: id,
		Settings: model.Settings{
			WinLimit:      5,
			TurnTimeLimit: 30 * time.Second,
			Difficulty:    model.DifficultyVeryDifficult,
		},
		State: model.GameState{
			CurrentPlayer: model.Player2,
			GameStatus:    model.GameStatusPlaying,
			RoundNumber:   3,
			Players: model.Players{
				{ID: model.Player1, Position: model.Position{X: 100, Y: 300}, Health: 100, Score: 2},
				{ID: model.Player2, Position: model.Position{X: 700, Y: 300}, Health: 40, Score: 1},
			},
			SessionScores: model.Scores{1, 1},
			TurnState: model.TurnState{
				TurnStartTime: start.Add(5 * time.Minute),
				TurnTimeLimit: 30 * time.Second,
				PlayerActions: model.PlayerActions{HasAimed: true},
				TurnNumber:    4,
			},
			IsRoundActive: true,
		},
		CreatedAt: start,
		UpdatedAt: start.Add(5 * time.Minute),
	}
}

func (s *Suite) TestSaveAndGetSession() {
	session := SampleSession("ABC123")

	err := s.Storage.SaveSession(s.Ctx, session)
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetSession(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(session, retrieved)
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.Storage.GetSession(s.Ctx, "MISSING")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestSaveSessionOverwrites() {
	session := SampleSession("ABC123")
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	session.State.GameStatus = model.GameStatusRoundOver
	session.State.RoundWinner = model.Player1
	session.State.SessionScores = model.Scores{2, 1}
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	retrieved, err := s.Storage.GetSession(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.GameStatusRoundOver, retrieved.State.GameStatus)
	s.Equal(model.Player1, retrieved.State.RoundWinner)
	s.Equal(2, retrieved.State.SessionScores.Of(model.Player1))
}

func (s *Suite) TestSavedSessionIsACopy() {
	session := SampleSession("ABC123")
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, session))

	session.State.RoundNumber = 99

	retrieved, err := s.Storage.GetSession(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(3, retrieved.State.RoundNumber)
}

func (s *Suite) TestDeleteSession() {
	s.Require().NoError(s.Storage.SaveSession(s.Ctx, SampleSession("ABC123")))

	err := s.Storage.DeleteSession(s.Ctx, "ABC123")
	s.Require().NoError(err)

	_, err = s.Storage.GetSession(s.Ctx, "ABC123")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestDeleteMissingSessionIsNoop() {
	s.NoError(s.Storage.DeleteSession(s.Ctx, "MISSING"))
}

func (s *Suite) TestSessionExists() {
	exists, err := s.Storage.SessionExists(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.Storage.SaveSession(s.Ctx, SampleSession("ABC123")))

	exists, err = s.Storage.SessionExists(s.Ctx, "ABC123")
	s.Require().NoError(err)
	s.True(exists)
}
