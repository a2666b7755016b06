package storage

import (
	"context"

	"github.com/mcoot/mountainshoot/internal/model"
)

// Storage persists session snapshots. Implementations store the session
// verbatim; they apply no game rules.
type Storage interface {
	SaveSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)
}
