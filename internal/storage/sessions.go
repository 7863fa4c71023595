package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ tracking.Store = (*DB)(nil)

const sessionColumns = `id, workout_id, member_id, status, start_time, end_time, paused_at,
	paused_seconds, current_exercise_index, notes, created_at, updated_at`

const exerciseColumns = `id, session_id, exercise_id, exercise_name, order_in_workout, status,
	start_time, end_time, total_seconds, notes, target_sets, target_reps, target_weight_kg,
	target_distance_meters, target_duration_seconds, target_rest_seconds`

const setColumns = `exercise_progress_id, set_number, status, start_time, end_time,
	actual_reps, actual_weight_kg, actual_distance_meters, actual_duration_seconds,
	rest_start_time, rest_end_time, actual_rest_seconds, rpe, notes`

// GetSession loads a session with all exercises and sets.
func (db *DB) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return getSession(ctx, db.Pool, id)
}

// CreateSession inserts a new session and its progress rows.
func (db *DB) CreateSession(ctx context.Context, s *models.Session) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO workout_sessions (`+sessionColumns+`)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			sessionArgs(s)...)
		if err != nil {
			return sessionWriteError(s, err)
		}
		return writeProgress(ctx, tx, s)
	})
}

// SaveSession writes the whole aggregate.
func (db *DB) SaveSession(ctx context.Context, s *models.Session) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		return saveSession(ctx, tx, s)
	})
}

// CompleteSession saves the completed session and inserts its result in one
// transaction.
func (db *DB) CompleteSession(ctx context.Context, s *models.Session, r models.WorkoutResult) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		if err := saveSession(ctx, tx, s); err != nil {
			return err
		}
		return insertResult(ctx, tx, r)
	})
}

// FindActiveSession returns the member's Active or Paused session, or nil.
func (db *DB) FindActiveSession(ctx context.Context, memberID int) (*models.Session, error) {
	var id string
	err := db.Pool.QueryRow(ctx,
		`SELECT id FROM workout_sessions
		 WHERE member_id = $1 AND status IN ('Active', 'Paused')
		 LIMIT 1`, memberID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying active session: %w", err)
	}
	return getSession(ctx, db.Pool, id)
}

// ListSessions returns session headers for the member, newest first.
func (db *DB) ListSessions(ctx context.Context, memberID int, f tracking.HistoryFilter) ([]models.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM workout_sessions WHERE member_id = $1`
	args := []any{memberID}
	if f.WorkoutID != nil {
		args = append(args, *f.WorkoutID)
		query += fmt.Sprintf(" AND workout_id = $%d", len(args))
	}
	args = append(args, f.Limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	result := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	return result, rows.Err()
}

func getSession(ctx context.Context, q querier, id string) (*models.Session, error) {
	s, err := scanSession(q.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM workout_sessions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tracking.Errorf(tracking.NotFound, "session %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := loadProgress(ctx, q, s); err != nil {
		return nil, err
	}
	return s, nil
}

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	var status string
	err := row.Scan(&s.ID, &s.WorkoutID, &s.MemberID, &status, &s.StartTime, &s.EndTime,
		&s.PausedAt, &s.PausedSeconds, &s.CurrentExerciseIndex, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	s.Status = models.SessionStatus(status)
	return &s, nil
}

func loadProgress(ctx context.Context, q querier, s *models.Session) error {
	rows, err := q.Query(ctx,
		`SELECT `+exerciseColumns+` FROM exercise_progress
		 WHERE session_id = $1 ORDER BY order_in_workout`, s.ID)
	if err != nil {
		return fmt.Errorf("querying exercise progress: %w", err)
	}
	defer rows.Close()

	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var ex models.ExerciseProgress
		var status string
		t := &ex.Targets
		if err := rows.Scan(&ex.ID, &ex.SessionID, &ex.ExerciseID, &ex.ExerciseName, &ex.OrderInWorkout,
			&status, &ex.StartTime, &ex.EndTime, &ex.TotalSeconds, &ex.Notes,
			&t.Sets, &t.Reps, &t.WeightKg, &t.DistanceMeters, &t.DurationSeconds, &t.RestSeconds); err != nil {
			return fmt.Errorf("scanning exercise progress: %w", err)
		}
		ex.Status = models.ProgressStatus(status)
		ex.Sets = []models.SetProgress{}
		index[ex.ID] = len(s.Exercises)
		s.Exercises = append(s.Exercises, ex)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading exercise progress: %w", err)
	}
	rows.Close()

	setRows, err := q.Query(ctx,
		`SELECT sp.exercise_progress_id, sp.set_number, sp.status, sp.start_time, sp.end_time,
		 sp.actual_reps, sp.actual_weight_kg, sp.actual_distance_meters, sp.actual_duration_seconds,
		 sp.rest_start_time, sp.rest_end_time, sp.actual_rest_seconds, sp.rpe, sp.notes
		 FROM set_progress sp
		 JOIN exercise_progress ep ON ep.id = sp.exercise_progress_id
		 WHERE ep.session_id = $1
		 ORDER BY ep.order_in_workout, sp.set_number`, s.ID)
	if err != nil {
		return fmt.Errorf("querying set progress: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var sp models.SetProgress
		var status string
		if err := setRows.Scan(&sp.ExerciseProgressID, &sp.SetNumber, &status, &sp.StartTime, &sp.EndTime,
			&sp.ActualReps, &sp.ActualWeightKg, &sp.ActualDistanceMeters, &sp.ActualDurationSeconds,
			&sp.RestStartTime, &sp.RestEndTime, &sp.ActualRestSeconds, &sp.RPE, &sp.Notes); err != nil {
			return fmt.Errorf("scanning set progress: %w", err)
		}
		sp.Status = models.ProgressStatus(status)
		i, ok := index[sp.ExerciseProgressID]
		if !ok {
			continue
		}
		s.Exercises[i].Sets = append(s.Exercises[i].Sets, sp)
	}
	return setRows.Err()
}

func saveSession(ctx context.Context, tx pgx.Tx, s *models.Session) error {
	tag, err := tx.Exec(ctx,
		`UPDATE workout_sessions SET
		 workout_id = $2, member_id = $3, status = $4, start_time = $5, end_time = $6,
		 paused_at = $7, paused_seconds = $8, current_exercise_index = $9, notes = $10,
		 created_at = $11, updated_at = $12
		 WHERE id = $1`,
		sessionArgs(s)...)
	if err != nil {
		return sessionWriteError(s, err)
	}
	if tag.RowsAffected() == 0 {
		return tracking.Errorf(tracking.NotFound, "session %s not found", s.ID)
	}
	return writeProgress(ctx, tx, s)
}

func sessionArgs(s *models.Session) []any {
	return []any{s.ID, s.WorkoutID, s.MemberID, string(s.Status), s.StartTime, s.EndTime,
		s.PausedAt, s.PausedSeconds, s.CurrentExerciseIndex, s.Notes, s.CreatedAt, s.UpdatedAt}
}

// sessionWriteError maps constraint violations on workout_sessions.
func sessionWriteError(s *models.Session, err error) error {
	code, constraint := pgCode(err)
	switch {
	case code == pgUniqueViolation && constraint == "workout_sessions_pkey":
		return tracking.Errorf(tracking.Conflict, "session %s already exists", s.ID)
	case code == pgUniqueViolation:
		return tracking.Errorf(tracking.Conflict, "member %d already has an open session", s.MemberID)
	case code == pgForeignKeyViolation:
		return tracking.Errorf(tracking.NotFound, "workout %s not found", s.WorkoutID)
	}
	return fmt.Errorf("writing session %s: %w", s.ID, err)
}

// writeProgress upserts every exercise and set row of s.
func writeProgress(ctx context.Context, tx pgx.Tx, s *models.Session) error {
	if len(s.Exercises) == 0 {
		return nil
	}

	const exCols = 16
	args := make([]any, 0, len(s.Exercises)*exCols)
	nsets := 0
	for _, ex := range s.Exercises {
		t := ex.Targets
		args = append(args, ex.ID, s.ID, ex.ExerciseID, ex.ExerciseName, ex.OrderInWorkout,
			string(ex.Status), ex.StartTime, ex.EndTime, ex.TotalSeconds, ex.Notes,
			t.Sets, t.Reps, t.WeightKg, t.DistanceMeters, t.DurationSeconds, t.RestSeconds)
		nsets += len(ex.Sets)
	}
	_, err := tx.Exec(ctx,
		`INSERT INTO exercise_progress (`+exerciseColumns+`) VALUES `+valuesList(len(s.Exercises), exCols)+`
		 ON CONFLICT (id) DO UPDATE SET
		 status = EXCLUDED.status, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
		 total_seconds = EXCLUDED.total_seconds, notes = EXCLUDED.notes`,
		args...)
	if err != nil {
		return fmt.Errorf("writing exercise progress: %w", err)
	}
	if nsets == 0 {
		return nil
	}

	const setCols = 14
	args = make([]any, 0, nsets*setCols)
	for _, ex := range s.Exercises {
		for _, sp := range ex.Sets {
			args = append(args, ex.ID, sp.SetNumber, string(sp.Status), sp.StartTime, sp.EndTime,
				sp.ActualReps, sp.ActualWeightKg, sp.ActualDistanceMeters, sp.ActualDurationSeconds,
				sp.RestStartTime, sp.RestEndTime, sp.ActualRestSeconds, sp.RPE, sp.Notes)
		}
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO set_progress (`+setColumns+`) VALUES `+valuesList(nsets, setCols)+`
		 ON CONFLICT (exercise_progress_id, set_number) DO UPDATE SET
		 status = EXCLUDED.status, start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time,
		 actual_reps = EXCLUDED.actual_reps, actual_weight_kg = EXCLUDED.actual_weight_kg,
		 actual_distance_meters = EXCLUDED.actual_distance_meters,
		 actual_duration_seconds = EXCLUDED.actual_duration_seconds,
		 rest_start_time = EXCLUDED.rest_start_time, rest_end_time = EXCLUDED.rest_end_time,
		 actual_rest_seconds = EXCLUDED.actual_rest_seconds, rpe = EXCLUDED.rpe, notes = EXCLUDED.notes`,
		args...)
	if err != nil {
		if code, _ := pgCode(err); code == pgCheckViolation {
			return tracking.Errorf(tracking.InvalidArgument, "set values out of range: %v", err)
		}
		return fmt.Errorf("writing set progress: %w", err)
	}
	return nil
}
