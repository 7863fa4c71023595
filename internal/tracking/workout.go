package tracking

import (
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// ValidateWorkout checks a workout plan before it is stored. An empty
// format is set to Standard.
func ValidateWorkout(w *models.Workout) error {
	w.Name = strings.TrimSpace(w.Name)
	if w.Name == "" {
		return Errorf(InvalidArgument, "workout name is required")
	}
	if w.Format == "" {
		w.Format = models.FormatStandard
	}
	if !w.Format.Valid() {
		return Errorf(InvalidArgument, "unknown workout format %q", w.Format)
	}
	if len(w.Exercises) == 0 {
		return Errorf(InvalidArgument, "workout needs at least one exercise")
	}

	ids := make(map[uuid.UUID]bool, len(w.Exercises))
	orders := make(map[int]bool, len(w.Exercises))
	for _, p := range w.Exercises {
		if p.ExerciseID == uuid.Nil {
			return Errorf(InvalidArgument, "exercise_id is required")
		}
		if ids[p.ExerciseID] {
			return Errorf(InvalidArgument, "exercise %s appears more than once", p.ExerciseID)
		}
		ids[p.ExerciseID] = true

		if p.OrderInWorkout < 0 {
			return Errorf(InvalidArgument, "order_in_workout must not be negative")
		}
		if orders[p.OrderInWorkout] {
			return Errorf(InvalidArgument, "order_in_workout %d is used twice", p.OrderInWorkout)
		}
		orders[p.OrderInWorkout] = true

		if err := validateTargets(p.Targets); err != nil {
			return err
		}
	}
	return nil
}

func validateTargets(t models.Targets) error {
	for name, v := range map[string]*int{
		"sets":             t.Sets,
		"reps":             t.Reps,
		"duration_seconds": t.DurationSeconds,
		"rest_seconds":     t.RestSeconds,
	} {
		if v != nil && *v < 0 {
			return Errorf(InvalidArgument, "target %s must not be negative", name)
		}
	}
	if t.WeightKg != nil && *t.WeightKg < 0 {
		return Errorf(InvalidArgument, "target weight_kg must not be negative")
	}
	if t.DistanceMeters != nil && *t.DistanceMeters < 0 {
		return Errorf(InvalidArgument, "target distance_meters must not be negative")
	}
	return nil
}
