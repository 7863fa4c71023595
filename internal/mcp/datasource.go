package mcp

import (
	"context"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
)

// DataSource abstracts the data layer for MCP tools. Local (in-process) and
// client.Client (remote via REST API) satisfy this interface.
type DataSource interface {
	GetActiveSession(ctx context.Context, memberID int) (*tracking.SessionView, error)
	GetSession(ctx context.Context, memberID int, id string) (*tracking.SessionView, error)
	ListSessions(ctx context.Context, memberID int, f tracking.HistoryFilter) ([]models.Session, error)
	ListWorkouts(ctx context.Context, memberID int) ([]models.Workout, error)
	ListWorkoutResults(ctx context.Context, memberID, limit int) ([]models.WorkoutResult, error)
}

// Catalog is the part of the workout catalog the MCP tools read.
type Catalog interface {
	ListWorkouts(ctx context.Context, memberID int) ([]models.Workout, error)
	ListWorkoutResults(ctx context.Context, memberID, limit int) ([]models.WorkoutResult, error)
}

// Local serves MCP reads in-process from the tracking service and catalog.
type Local struct {
	*tracking.Service
	Catalog
}

var _ DataSource = Local{}

// NewLocal pairs svc and catalog into a DataSource.
func NewLocal(svc *tracking.Service, catalog Catalog) Local {
	return Local{Service: svc, Catalog: catalog}
}
