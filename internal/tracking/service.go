package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

const defaultHistoryLimit = 50

// Service runs lifecycle commands: load, authorize, transition, save.
// It keeps no state between calls.
type Service struct {
	store     Store
	notifiers []ResultNotifier
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService creates a Service backed by store.
func NewService(store Store, log *slog.Logger, notifiers ...ResultNotifier) *Service {
	return &Service{
		store:     store,
		notifiers: notifiers,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// SessionView is a session with its derived numbers, computed at read time.
type SessionView struct {
	models.Session
	Stats         models.SessionStats `json:"stats"`
	ActiveSeconds int64               `json:"active_seconds"`
}

func (s *Service) view(sess *models.Session) *SessionView {
	return &SessionView{
		Session:       *sess,
		Stats:         Stats(sess),
		ActiveSeconds: TimerOf(sess).ActiveSeconds(s.now()),
	}
}

// StartRequest describes a new session. SessionID may be empty, in which
// case one is generated.
type StartRequest struct {
	SessionID string
	WorkoutID uuid.UUID
	Plan      []models.PlannedExercise
	Notes     string
}

// StartSession creates an Active session for the member.
func (s *Service) StartSession(ctx context.Context, memberID int, req StartRequest) (*SessionView, error) {
	id := req.SessionID
	if id == "" {
		id = s.newID()
	}
	sess, err := NewSession(id, req.WorkoutID, memberID, req.Plan, s.now())
	if err != nil {
		return nil, err
	}
	sess.Notes = req.Notes

	active, err := s.store.FindActiveSession(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("checking active session: %w", err)
	}
	if active != nil {
		return nil, Errorf(Conflict, "member already has %s session %s", active.Status, active.ID)
	}

	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	s.log.Info("session started", "session", sess.ID, "member", memberID, "workout", req.WorkoutID, "exercises", len(sess.Exercises))
	return s.view(sess), nil
}

// GetSession returns a session owned by the member.
func (s *Service) GetSession(ctx context.Context, memberID int, id string) (*SessionView, error) {
	sess, err := s.load(ctx, memberID, id)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// GetActiveSession returns the member's open session, or nil when there is none.
func (s *Service) GetActiveSession(ctx context.Context, memberID int) (*SessionView, error) {
	sess, err := s.store.FindActiveSession(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("finding active session: %w", err)
	}
	if sess == nil {
		return nil, nil
	}
	return s.view(sess), nil
}

// ListSessions returns the member's session history, newest first.
func (s *Service) ListSessions(ctx context.Context, memberID int, f HistoryFilter) ([]models.Session, error) {
	if f.Limit <= 0 {
		f.Limit = defaultHistoryLimit
	}
	sessions, err := s.store.ListSessions(ctx, memberID, f)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

// PauseSession pauses an Active session.
func (s *Service) PauseSession(ctx context.Context, memberID int, id string) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "session paused", PauseSession)
}

// ResumeSession resumes a Paused session.
func (s *Service) ResumeSession(ctx context.Context, memberID int, id string) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "session resumed", ResumeSession)
}

// AbandonSession ends a session without producing a result.
func (s *Service) AbandonSession(ctx context.Context, memberID int, id string) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "session abandoned", AbandonSession)
}

// Completion is the member's closing feedback for a session.
type Completion struct {
	Rating      int     `json:"rating"`
	Mood        *string `json:"mood,omitempty"`
	EnergyLevel *int    `json:"energy_level,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	IsPublic    bool    `json:"is_public"`
}

func (c Completion) validate() error {
	if c.Rating < 1 || c.Rating > 5 {
		return Errorf(InvalidArgument, "rating must be between 1 and 5, got %d", c.Rating)
	}
	if c.EnergyLevel != nil && (*c.EnergyLevel < 1 || *c.EnergyLevel > 10) {
		return Errorf(InvalidArgument, "energy_level must be between 1 and 10, got %d", *c.EnergyLevel)
	}
	return nil
}

// CompletedSession pairs a finished session with its stored result.
type CompletedSession struct {
	Session *SessionView          `json:"session"`
	Result  *models.WorkoutResult `json:"result"`
}

// CompleteSession finishes the session and records a workout result in the
// same write. Notifiers run afterwards.
func (s *Service) CompleteSession(ctx context.Context, memberID int, id string, c Completion) (*SessionView, *models.WorkoutResult, error) {
	if err := c.validate(); err != nil {
		return nil, nil, err
	}
	sess, err := s.load(ctx, memberID, id)
	if err != nil {
		return nil, nil, err
	}
	now := s.now()
	if err := CompleteSession(sess, now); err != nil {
		return nil, nil, err
	}

	view := s.view(sess)
	result := models.WorkoutResult{
		ID:            uuid.New(),
		SessionID:     sess.ID,
		WorkoutID:     sess.WorkoutID,
		MemberID:      sess.MemberID,
		Rating:        c.Rating,
		Mood:          c.Mood,
		EnergyLevel:   c.EnergyLevel,
		Notes:         c.Notes,
		IsPublic:      c.IsPublic,
		ActiveSeconds: view.ActiveSeconds,
		Stats:         view.Stats,
		CompletedAt:   now,
	}
	if err := s.store.CompleteSession(ctx, sess, result); err != nil {
		return nil, nil, fmt.Errorf("saving completed session %s: %w", id, err)
	}
	s.log.Info("session completed", "session", id, "member", memberID,
		"rating", c.Rating, "completion", view.Stats.CompletionPercentage, "volume", view.Stats.TotalVolume)

	for _, n := range s.notifiers {
		if err := n.NotifyResult(ctx, result); err != nil {
			s.log.Error("result notification failed", "session", id, "error", err)
		}
	}
	return view, &result, nil
}

// StartExercise starts one exercise of the session.
func (s *Service) StartExercise(ctx context.Context, memberID int, id string, exerciseID uuid.UUID) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "exercise started", func(sess *models.Session, now time.Time) error {
		return StartExercise(sess, exerciseID, now)
	})
}

// CompleteExercise completes an in-progress exercise.
func (s *Service) CompleteExercise(ctx context.Context, memberID int, id string, exerciseID uuid.UUID) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "exercise completed", func(sess *models.Session, now time.Time) error {
		return CompleteExercise(sess, exerciseID, now)
	})
}

// SkipExercise skips an exercise that has not finished.
func (s *Service) SkipExercise(ctx context.Context, memberID int, id string, exerciseID uuid.UUID) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "exercise skipped", func(sess *models.Session, now time.Time) error {
		return SkipExercise(sess, exerciseID, now)
	})
}

// UpdateExerciseProgress applies a raw patch to an exercise.
func (s *Service) UpdateExerciseProgress(ctx context.Context, memberID int, id string, exerciseID uuid.UUID, p models.ExercisePatch) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "exercise patched", func(sess *models.Session, now time.Time) error {
		return PatchExercise(sess, exerciseID, p, now)
	})
}

// StartSet starts one set.
func (s *Service) StartSet(ctx context.Context, memberID int, id string, exerciseID uuid.UUID, number int) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "set started", func(sess *models.Session, now time.Time) error {
		return StartSet(sess, exerciseID, number, now)
	})
}

// CompleteSet completes an in-progress set with the reported values.
func (s *Service) CompleteSet(ctx context.Context, memberID int, id string, exerciseID uuid.UUID, number int, d models.SetData) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "set completed", func(sess *models.Session, now time.Time) error {
		return CompleteSet(sess, exerciseID, number, d, now)
	})
}

// UpdateSetProgress applies a raw patch to a set.
func (s *Service) UpdateSetProgress(ctx context.Context, memberID int, id string, exerciseID uuid.UUID, number int, d models.SetData) (*SessionView, error) {
	return s.mutate(ctx, memberID, id, "set patched", func(sess *models.Session, now time.Time) error {
		return PatchSet(sess, exerciseID, number, d, now)
	})
}

// load fetches a session and checks that the member owns it.
func (s *Service) load(ctx context.Context, memberID int, id string) (*models.Session, error) {
	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.MemberID != memberID {
		return nil, Errorf(Unauthorized, "session %s belongs to another member", id)
	}
	return sess, nil
}

func (s *Service) mutate(ctx context.Context, memberID int, id, action string, fn func(*models.Session, time.Time) error) (*SessionView, error) {
	sess, err := s.load(ctx, memberID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(sess, s.now()); err != nil {
		return nil, err
	}
	if err := s.store.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session %s: %w", id, err)
	}
	s.log.Info(action, "session", id, "member", memberID, "status", sess.Status)
	return s.view(sess), nil
}
