package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateExercise adds an exercise to the catalog. Names are unique.
func (db *DB) CreateExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, tracking.Errorf(tracking.InvalidArgument, "exercise name is required")
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	err := db.Pool.QueryRow(ctx,
		`INSERT INTO exercises (id, name, muscle_group, equipment)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		e.ID, e.Name, e.MuscleGroup, e.Equipment,
	).Scan(&e.CreatedAt)
	if err != nil {
		if code, _ := pgCode(err); code == pgUniqueViolation {
			return nil, tracking.Errorf(tracking.Conflict, "exercise %q already exists", e.Name)
		}
		return nil, fmt.Errorf("inserting exercise: %w", err)
	}
	return &e, nil
}

// ListExercises returns the whole catalog ordered by name.
func (db *DB) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, muscle_group, equipment, created_at FROM exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	defer rows.Close()

	result := []models.Exercise{}
	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.MuscleGroup, &e.Equipment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// CreateWorkout validates and stores a workout plan for the member.
func (db *DB) CreateWorkout(ctx context.Context, memberID int, w models.Workout) (*models.Workout, error) {
	if err := tracking.ValidateWorkout(&w); err != nil {
		return nil, err
	}
	w.ID = uuid.New()
	w.MemberID = memberID

	err := db.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO workouts (id, member_id, name, description, format)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING created_at`,
			w.ID, w.MemberID, w.Name, w.Description, string(w.Format),
		).Scan(&w.CreatedAt); err != nil {
			return fmt.Errorf("inserting workout: %w", err)
		}

		const cols = 9
		args := make([]any, 0, len(w.Exercises)*cols)
		for _, p := range w.Exercises {
			args = append(args, w.ID, p.ExerciseID, p.OrderInWorkout,
				p.Sets, p.Reps, p.WeightKg, p.DistanceMeters, p.DurationSeconds, p.RestSeconds)
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO workout_exercises (workout_id, exercise_id, order_in_workout,
			 target_sets, target_reps, target_weight_kg, target_distance_meters,
			 target_duration_seconds, target_rest_seconds) VALUES `+valuesList(len(w.Exercises), cols),
			args...)
		if err != nil {
			if code, _ := pgCode(err); code == pgForeignKeyViolation {
				return tracking.Errorf(tracking.NotFound, "workout references an exercise that is not in the catalog")
			}
			return fmt.Errorf("inserting workout exercises: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// names come from the catalog
	return db.GetWorkout(ctx, memberID, w.ID)
}

// GetWorkout returns a workout with its planned exercises in order.
func (db *DB) GetWorkout(ctx context.Context, memberID int, id uuid.UUID) (*models.Workout, error) {
	var w models.Workout
	var format string
	err := db.Pool.QueryRow(ctx,
		`SELECT id, member_id, name, description, format, created_at FROM workouts WHERE id = $1`, id,
	).Scan(&w.ID, &w.MemberID, &w.Name, &w.Description, &format, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tracking.Errorf(tracking.NotFound, "workout %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout %s: %w", id, err)
	}
	if w.MemberID != memberID {
		return nil, tracking.Errorf(tracking.Unauthorized, "workout %s belongs to another member", id)
	}
	w.Format = models.WorkoutFormat(format)

	plans, err := db.workoutPlans(ctx, "we.workout_id = $1", w.ID)
	if err != nil {
		return nil, err
	}
	w.Exercises = plans[w.ID]
	return &w, nil
}

// ListWorkouts returns the member's workouts, newest first.
func (db *DB) ListWorkouts(ctx context.Context, memberID int) ([]models.Workout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, member_id, name, description, format, created_at
		 FROM workouts WHERE member_id = $1
		 ORDER BY created_at DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	result := []models.Workout{}
	for rows.Next() {
		var w models.Workout
		var format string
		if err := rows.Scan(&w.ID, &w.MemberID, &w.Name, &w.Description, &format, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		w.Format = models.WorkoutFormat(format)
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	plans, err := db.workoutPlans(ctx, "w.member_id = $1", memberID)
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Exercises = plans[result[i].ID]
	}
	return result, nil
}

// workoutPlans loads planned exercises keyed by workout for the workouts
// matching where, a condition over the aliases we (workout_exercises) and
// w (workouts) with a single parameter.
func (db *DB) workoutPlans(ctx context.Context, where string, arg any) (map[uuid.UUID][]models.PlannedExercise, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT we.workout_id, we.exercise_id, e.name, we.order_in_workout,
		 we.target_sets, we.target_reps, we.target_weight_kg, we.target_distance_meters,
		 we.target_duration_seconds, we.target_rest_seconds
		 FROM workout_exercises we
		 JOIN workouts w ON w.id = we.workout_id
		 JOIN exercises e ON e.id = we.exercise_id
		 WHERE `+where+`
		 ORDER BY we.workout_id, we.order_in_workout`, arg)
	if err != nil {
		return nil, fmt.Errorf("querying workout exercises: %w", err)
	}
	defer rows.Close()

	plans := make(map[uuid.UUID][]models.PlannedExercise)
	for rows.Next() {
		var workoutID uuid.UUID
		var p models.PlannedExercise
		if err := rows.Scan(&workoutID, &p.ExerciseID, &p.ExerciseName, &p.OrderInWorkout,
			&p.Sets, &p.Reps, &p.WeightKg, &p.DistanceMeters,
			&p.DurationSeconds, &p.RestSeconds); err != nil {
			return nil, fmt.Errorf("scanning workout exercise: %w", err)
		}
		plans[workoutID] = append(plans[workoutID], p)
	}
	return plans, rows.Err()
}
