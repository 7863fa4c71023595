package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is an authenticated user of the service.
type Member struct {
	ID          int       `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Exercise is a catalog entry.
type Exercise struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	MuscleGroup string    `json:"muscle_group,omitempty"`
	Equipment   string    `json:"equipment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// WorkoutFormat describes how planned exercises map to time or rounds.
type WorkoutFormat string

const (
	FormatStandard WorkoutFormat = "Standard"
	FormatEMOM     WorkoutFormat = "EMOM"
	FormatAMRAP    WorkoutFormat = "AMRAP"
	FormatForTime  WorkoutFormat = "ForTime"
	FormatTabata   WorkoutFormat = "Tabata"
	FormatLadder   WorkoutFormat = "Ladder"
)

// Valid reports whether f is a known format. Empty is not valid; callers
// default it to FormatStandard first.
func (f WorkoutFormat) Valid() bool {
	switch f {
	case FormatStandard, FormatEMOM, FormatAMRAP, FormatForTime, FormatTabata, FormatLadder:
		return true
	}
	return false
}

// Workout is a member's plan: an ordered list of exercises with targets.
type Workout struct {
	ID          uuid.UUID         `json:"id"`
	MemberID    int               `json:"member_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Format      WorkoutFormat     `json:"format"`
	Exercises   []PlannedExercise `json:"exercises"`
	CreatedAt   time.Time         `json:"created_at"`
}

// PlannedExercise is one exercise of a workout plan, as supplied by the
// catalog when a session starts.
type PlannedExercise struct {
	ExerciseID     uuid.UUID `json:"exercise_id"`
	ExerciseName   string    `json:"exercise_name"`
	OrderInWorkout int       `json:"order_in_workout"`
	Targets
}

// WorkoutResult is the durable summary written when a session completes.
type WorkoutResult struct {
	ID            uuid.UUID    `json:"id"`
	SessionID     string       `json:"session_id"`
	WorkoutID     uuid.UUID    `json:"workout_id"`
	MemberID      int          `json:"member_id"`
	Rating        int          `json:"rating"`
	Mood          *string      `json:"mood,omitempty"`
	EnergyLevel   *int         `json:"energy_level,omitempty"`
	Notes         *string      `json:"notes,omitempty"`
	IsPublic      bool         `json:"is_public"`
	ActiveSeconds int64        `json:"active_seconds"`
	Stats         SessionStats `json:"stats"`
	CompletedAt   time.Time    `json:"completed_at"`
}

// StartSessionRequest is the body of a start-session call. SessionID is
// optional and generated when empty.
type StartSessionRequest struct {
	WorkoutID uuid.UUID `json:"workout_id"`
	SessionID string    `json:"session_id,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}
