package server

import (
	"context"
	"log/slog"
	"net/http"

	liftmcp "github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Catalog is the exercise and workout catalog plus result history.
// *storage.DB satisfies it.
type Catalog interface {
	CreateExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	CreateWorkout(ctx context.Context, memberID int, w models.Workout) (*models.Workout, error)
	GetWorkout(ctx context.Context, memberID int, id uuid.UUID) (*models.Workout, error)
	ListWorkouts(ctx context.Context, memberID int) ([]models.Workout, error)
	ListWorkoutResults(ctx context.Context, memberID, limit int) ([]models.WorkoutResult, error)
}

// Members resolves Tailscale logins to member IDs.
type Members interface {
	GetOrCreateMember(ctx context.Context, login, displayName string) (int, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc     *tracking.Service
	catalog Catalog
	log     *slog.Logger
	router  chi.Router

	whois   WhoIsClient
	members Members
}

// New creates a new Server with all routes configured. Until SetTailscale
// is called every request runs as the local dev member.
func New(svc *tracking.Service, catalog Catalog, log *slog.Logger) *Server {
	s := &Server{
		svc:     svc,
		catalog: catalog,
		log:     log,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale switches identity resolution to Tailscale WhoIs lookups.
func (s *Server) SetTailscale(whois WhoIsClient, members Members) {
	s.whois = whois
	s.members = members
}

// MountMCP serves m over streamable HTTP at /mcp, scoped to the caller.
func (s *Server) MountMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return liftmcp.WithMemberID(ctx, memberIDFromContext(r))
		}),
	)
	s.router.Handle("/mcp", h)
	s.router.Handle("/mcp/*", h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identify)

	s.router.Get("/api/v1/me", s.handleMe)

	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Post("/api/v1/exercises", s.handleCreateExercise)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Post("/api/v1/workouts", s.handleCreateWorkout)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)

	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleStartSession)
		r.Get("/", s.handleListSessions)
		r.Get("/active", s.handleActiveSession)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Get("/stats", s.handleSessionStats)
			r.Post("/pause", s.handlePause)
			r.Post("/resume", s.handleResume)
			r.Post("/abandon", s.handleAbandon)
			r.Post("/complete", s.handleComplete)

			r.Route("/exercises/{exerciseID}", func(r chi.Router) {
				r.Patch("/", s.handlePatchExercise)
				r.Post("/start", s.handleStartExercise)
				r.Post("/complete", s.handleCompleteExercise)
				r.Post("/skip", s.handleSkipExercise)

				r.Patch("/sets/{setNumber}", s.handlePatchSet)
				r.Post("/sets/{setNumber}/start", s.handleStartSet)
				r.Post("/sets/{setNumber}/complete", s.handleCompleteSet)
			})
		})
	})

	s.router.Get("/api/v1/results", s.handleListResults)
}
