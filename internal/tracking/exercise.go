package tracking

import (
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// StartExercise moves an exercise NotStarted -> InProgress and points the
// session's current exercise at it.
func StartExercise(s *models.Session, exerciseID uuid.UUID, now time.Time) error {
	if err := requireActive(s); err != nil {
		return err
	}
	ex, err := findExercise(s, exerciseID)
	if err != nil {
		return err
	}
	if ex.Status != models.ProgressNotStarted {
		return Errorf(InvalidState, "cannot start exercise %s: status is %s", exerciseID, ex.Status)
	}

	start := now
	ex.Status = models.ProgressInProgress
	ex.StartTime = &start
	s.CurrentExerciseIndex = ex.OrderInWorkout
	s.UpdatedAt = now
	return nil
}

// CompleteExercise moves an exercise InProgress -> Completed and records
// its total time.
func CompleteExercise(s *models.Session, exerciseID uuid.UUID, now time.Time) error {
	if err := requireActive(s); err != nil {
		return err
	}
	ex, err := findExercise(s, exerciseID)
	if err != nil {
		return err
	}
	if ex.Status != models.ProgressInProgress {
		return Errorf(InvalidState, "cannot complete exercise %s: status is %s", exerciseID, ex.Status)
	}

	end := now
	ex.Status = models.ProgressCompleted
	ex.EndTime = &end
	ex.TotalSeconds = spanSeconds(ex.StartTime, ex.EndTime)
	s.UpdatedAt = now
	return nil
}

// SkipExercise moves a not yet finished exercise to Skipped. Its sets are
// left as they are.
func SkipExercise(s *models.Session, exerciseID uuid.UUID, now time.Time) error {
	if err := requireActive(s); err != nil {
		return err
	}
	ex, err := findExercise(s, exerciseID)
	if err != nil {
		return err
	}
	if ex.Status.IsTerminal() {
		return Errorf(InvalidState, "cannot skip exercise %s: status is %s", exerciseID, ex.Status)
	}

	end := now
	ex.Status = models.ProgressSkipped
	ex.EndTime = &end
	ex.TotalSeconds = spanSeconds(ex.StartTime, ex.EndTime)
	s.UpdatedAt = now
	return nil
}

// PatchExercise applies a raw partial update. Unlike the guarded
// transitions it accepts any status, including moving backwards; the only
// requirement is that the session is not finished.
func PatchExercise(s *models.Session, exerciseID uuid.UUID, p models.ExercisePatch, now time.Time) error {
	if err := requireOpen(s); err != nil {
		return err
	}
	ex, err := findExercise(s, exerciseID)
	if err != nil {
		return err
	}

	if p.Status != nil {
		ex.Status = *p.Status
	}
	if p.StartTime != nil {
		t := *p.StartTime
		ex.StartTime = &t
	}
	if p.EndTime != nil {
		t := *p.EndTime
		ex.EndTime = &t
	}
	if p.Notes != nil {
		n := *p.Notes
		ex.Notes = &n
	}
	ex.TotalSeconds = spanSeconds(ex.StartTime, ex.EndTime)
	s.UpdatedAt = now
	return nil
}

// spanSeconds is end-start in whole seconds, 0 when either is missing.
func spanSeconds(start, end *time.Time) int64 {
	if start == nil || end == nil {
		return 0
	}
	return seconds(end.Sub(*start))
}
