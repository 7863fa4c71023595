package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is one member's timed attempt at a planned workout.
type Session struct {
	ID                   string             `json:"id"`
	WorkoutID            uuid.UUID          `json:"workout_id"`
	MemberID             int                `json:"member_id"`
	Status               SessionStatus      `json:"status"`
	StartTime            *time.Time         `json:"start_time"`
	EndTime              *time.Time         `json:"end_time"`
	PausedAt             *time.Time         `json:"paused_at"`
	PausedSeconds        int64              `json:"paused_seconds"`
	CurrentExerciseIndex int                `json:"current_exercise_index"`
	Notes                string             `json:"notes,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
	Exercises            []ExerciseProgress `json:"exercises,omitempty"`
}

// Exercise returns the progress entry for exerciseID, or nil.
func (s *Session) Exercise(exerciseID uuid.UUID) *ExerciseProgress {
	for i := range s.Exercises {
		if s.Exercises[i].ExerciseID == exerciseID {
			return &s.Exercises[i]
		}
	}
	return nil
}

// Targets are the planned values for an exercise. All optional.
type Targets struct {
	Sets            *int     `json:"sets,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	WeightKg        *float64 `json:"weight_kg,omitempty"`
	DistanceMeters  *float64 `json:"distance_meters,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	RestSeconds     *int     `json:"rest_seconds,omitempty"`
}

// ExerciseProgress tracks one exercise within a session.
type ExerciseProgress struct {
	ID             uuid.UUID      `json:"id"`
	SessionID      string         `json:"session_id"`
	ExerciseID     uuid.UUID      `json:"exercise_id"`
	ExerciseName   string         `json:"exercise_name"`
	OrderInWorkout int            `json:"order_in_workout"`
	Status         ProgressStatus `json:"status"`
	StartTime      *time.Time     `json:"start_time"`
	EndTime        *time.Time     `json:"end_time"`
	TotalSeconds   int64          `json:"total_seconds"`
	Notes          *string        `json:"notes,omitempty"`
	Targets        Targets        `json:"targets"`
	Sets           []SetProgress  `json:"sets"`
}

// Set returns the set with the given 1-based number, or nil.
func (e *ExerciseProgress) Set(number int) *SetProgress {
	for i := range e.Sets {
		if e.Sets[i].SetNumber == number {
			return &e.Sets[i]
		}
	}
	return nil
}

// SetProgress tracks one set of one exercise.
type SetProgress struct {
	ExerciseProgressID    uuid.UUID      `json:"exercise_progress_id"`
	SetNumber             int            `json:"set_number"`
	Status                ProgressStatus `json:"status"`
	StartTime             *time.Time     `json:"start_time"`
	EndTime               *time.Time     `json:"end_time"`
	ActualReps            *int           `json:"actual_reps,omitempty"`
	ActualWeightKg        *float64       `json:"actual_weight_kg,omitempty"`
	ActualDistanceMeters  *float64       `json:"actual_distance_meters,omitempty"`
	ActualDurationSeconds *int           `json:"actual_duration_seconds,omitempty"`
	RestStartTime         *time.Time     `json:"rest_start_time,omitempty"`
	RestEndTime           *time.Time     `json:"rest_end_time,omitempty"`
	ActualRestSeconds     *int           `json:"actual_rest_seconds,omitempty"`
	RPE                   *int           `json:"rpe,omitempty"`
	Notes                 *string        `json:"notes,omitempty"`
}

// SessionStats is derived from a session snapshot and never stored as source of truth.
type SessionStats struct {
	TotalExercises       int     `json:"total_exercises"`
	CompletedExercises   int     `json:"completed_exercises"`
	SkippedExercises     int     `json:"skipped_exercises"`
	TotalSets            int     `json:"total_sets"`
	CompletedSets        int     `json:"completed_sets"`
	TotalVolume          float64 `json:"total_volume"`
	AverageSetTime       float64 `json:"average_set_time"`
	AverageRestTime      float64 `json:"average_rest_time"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// SetData carries the member-reported values for a set. Nil fields are
// left unchanged when applied.
type SetData struct {
	Status                *ProgressStatus `json:"status,omitempty"`
	StartTime             *time.Time      `json:"start_time,omitempty"`
	EndTime               *time.Time      `json:"end_time,omitempty"`
	ActualReps            *int            `json:"actual_reps,omitempty"`
	ActualWeightKg        *float64        `json:"actual_weight_kg,omitempty"`
	ActualDistanceMeters  *float64        `json:"actual_distance_meters,omitempty"`
	ActualDurationSeconds *int            `json:"actual_duration_seconds,omitempty"`
	RestStartTime         *time.Time      `json:"rest_start_time,omitempty"`
	RestEndTime           *time.Time      `json:"rest_end_time,omitempty"`
	ActualRestSeconds     *int            `json:"actual_rest_seconds,omitempty"`
	RPE                   *int            `json:"rpe,omitempty"`
	Notes                 *string         `json:"notes,omitempty"`
}

// ExercisePatch is a raw partial update of an exercise. Nil fields are
// left unchanged.
type ExercisePatch struct {
	Status    *ProgressStatus `json:"status,omitempty"`
	StartTime *time.Time      `json:"start_time,omitempty"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
	Notes     *string         `json:"notes,omitempty"`
}
