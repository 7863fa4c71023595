package tracking

import (
	"context"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// Store persists sessions. Implementations return *Error values of kind
// NotFound and Conflict so the service can pass them through unchanged.
type Store interface {
	// GetSession loads a session with all exercises and sets.
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// CreateSession inserts a new session. It must fail with Conflict when
	// the member already has an Active or Paused session, or the id is taken.
	CreateSession(ctx context.Context, s *models.Session) error
	// SaveSession writes the whole aggregate. Last write wins.
	SaveSession(ctx context.Context, s *models.Session) error
	// CompleteSession saves the completed session and its result atomically.
	CompleteSession(ctx context.Context, s *models.Session, r models.WorkoutResult) error
	// FindActiveSession returns the member's Active or Paused session, or nil.
	FindActiveSession(ctx context.Context, memberID int) (*models.Session, error)
	// ListSessions returns session headers (no exercises), newest first.
	ListSessions(ctx context.Context, memberID int, f HistoryFilter) ([]models.Session, error)
}

// HistoryFilter narrows ListSessions.
type HistoryFilter struct {
	WorkoutID *uuid.UUID
	Limit     int
}

// ResultNotifier is told about every completed workout after it has been
// stored. Failures are logged and do not undo the completion.
type ResultNotifier interface {
	NotifyResult(ctx context.Context, r models.WorkoutResult) error
}
