package tracking

import (
	"sort"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// The functions in this file are the guarded transitions. Each one runs all
// of its checks before touching the session, so a returned error means the
// session is exactly as it was passed in.

// NewSession builds an Active session for the given plan. Exercises are
// ordered by OrderInWorkout and each gets Sets (default 1) NotStarted sets.
func NewSession(id string, workoutID uuid.UUID, memberID int, plan []models.PlannedExercise, now time.Time) (*models.Session, error) {
	if id == "" {
		return nil, Errorf(InvalidArgument, "session id is required")
	}
	if len(plan) == 0 {
		return nil, Errorf(InvalidArgument, "workout plan has no exercises")
	}

	seen := make(map[uuid.UUID]bool, len(plan))
	for _, p := range plan {
		if p.OrderInWorkout < 0 {
			return nil, Errorf(InvalidArgument, "exercise %s has negative order %d", p.ExerciseID, p.OrderInWorkout)
		}
		if p.Sets != nil && *p.Sets < 0 {
			return nil, Errorf(InvalidArgument, "exercise %s has negative set count %d", p.ExerciseID, *p.Sets)
		}
		if seen[p.ExerciseID] {
			return nil, Errorf(InvalidArgument, "exercise %s appears more than once in the plan", p.ExerciseID)
		}
		seen[p.ExerciseID] = true
	}

	ordered := make([]models.PlannedExercise, len(plan))
	copy(ordered, plan)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderInWorkout < ordered[j].OrderInWorkout
	})

	start := now
	s := &models.Session{
		ID:        id,
		WorkoutID: workoutID,
		MemberID:  memberID,
		Status:    models.SessionActive,
		StartTime: &start,
		CreatedAt: now,
		UpdatedAt: now,
		Exercises: make([]models.ExerciseProgress, 0, len(ordered)),
	}
	for _, p := range ordered {
		s.Exercises = append(s.Exercises, newExerciseProgress(id, p))
	}
	return s, nil
}

func newExerciseProgress(sessionID string, p models.PlannedExercise) models.ExerciseProgress {
	n := 1
	if p.Sets != nil && *p.Sets > 0 {
		n = *p.Sets
	}
	ep := models.ExerciseProgress{
		ID:             uuid.New(),
		SessionID:      sessionID,
		ExerciseID:     p.ExerciseID,
		ExerciseName:   p.ExerciseName,
		OrderInWorkout: p.OrderInWorkout,
		Status:         models.ProgressNotStarted,
		Targets:        p.Targets,
		Sets:           make([]models.SetProgress, n),
	}
	for i := range ep.Sets {
		ep.Sets[i] = models.SetProgress{
			ExerciseProgressID: ep.ID,
			SetNumber:          i + 1,
			Status:             models.ProgressNotStarted,
		}
	}
	return ep
}

// PauseSession moves Active -> Paused.
func PauseSession(s *models.Session, now time.Time) error {
	if s.Status != models.SessionActive {
		return Errorf(InvalidState, "cannot pause session %s: status is %s", s.ID, s.Status)
	}
	at := now
	s.Status = models.SessionPaused
	s.PausedAt = &at
	s.UpdatedAt = now
	return nil
}

// ResumeSession moves Paused -> Active and adds the pause to PausedSeconds.
func ResumeSession(s *models.Session, now time.Time) error {
	if s.Status != models.SessionPaused {
		return Errorf(InvalidState, "cannot resume session %s: status is %s", s.ID, s.Status)
	}
	closePause(s, now)
	s.Status = models.SessionActive
	s.UpdatedAt = now
	return nil
}

// CompleteSession moves Active|Paused -> Completed.
func CompleteSession(s *models.Session, now time.Time) error {
	if !s.Status.IsOpen() {
		return Errorf(InvalidState, "cannot complete session %s: status is %s", s.ID, s.Status)
	}
	finish(s, models.SessionCompleted, now)
	return nil
}

// AbandonSession moves any non-terminal status to Abandoned.
func AbandonSession(s *models.Session, now time.Time) error {
	if s.Status.IsTerminal() {
		return Errorf(InvalidState, "cannot abandon session %s: status is %s", s.ID, s.Status)
	}
	finish(s, models.SessionAbandoned, now)
	return nil
}

func finish(s *models.Session, status models.SessionStatus, now time.Time) {
	closePause(s, now)
	end := now
	s.Status = status
	s.EndTime = &end
	s.UpdatedAt = now
}

func closePause(s *models.Session, now time.Time) {
	if s.PausedAt == nil {
		return
	}
	s.PausedSeconds += seconds(now.Sub(*s.PausedAt))
	s.PausedAt = nil
}

func requireActive(s *models.Session) error {
	if s.Status != models.SessionActive {
		return Errorf(InvalidState, "session %s is %s; progress can only be tracked while Active", s.ID, s.Status)
	}
	return nil
}

func requireOpen(s *models.Session) error {
	if s.Status.IsTerminal() {
		return Errorf(InvalidState, "session %s is %s and can no longer be changed", s.ID, s.Status)
	}
	return nil
}

func findExercise(s *models.Session, exerciseID uuid.UUID) (*models.ExerciseProgress, error) {
	ex := s.Exercise(exerciseID)
	if ex == nil {
		return nil, Errorf(NotFound, "exercise %s is not part of session %s", exerciseID, s.ID)
	}
	return ex, nil
}

func findSet(s *models.Session, exerciseID uuid.UUID, number int) (*models.ExerciseProgress, *models.SetProgress, error) {
	ex, err := findExercise(s, exerciseID)
	if err != nil {
		return nil, nil, err
	}
	set := ex.Set(number)
	if set == nil {
		return nil, nil, Errorf(NotFound, "set %d of exercise %s does not exist", number, exerciseID)
	}
	return ex, set, nil
}
