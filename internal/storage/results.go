package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/jackc/pgx/v5"
)

func insertResult(ctx context.Context, tx pgx.Tx, r models.WorkoutResult) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO workout_results (id, session_id, workout_id, member_id, rating, mood,
		 energy_level, notes, is_public, active_seconds, stats, completed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		r.ID, r.SessionID, r.WorkoutID, r.MemberID, r.Rating, r.Mood,
		r.EnergyLevel, r.Notes, r.IsPublic, r.ActiveSeconds, r.Stats, r.CompletedAt)
	if err != nil {
		if code, _ := pgCode(err); code == pgUniqueViolation {
			return tracking.Errorf(tracking.Conflict, "session %s already has a result", r.SessionID)
		}
		return fmt.Errorf("inserting workout result: %w", err)
	}
	return nil
}

// ListWorkoutResults returns the member's most recent results.
func (db *DB) ListWorkoutResults(ctx context.Context, memberID, limit int) ([]models.WorkoutResult, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, session_id, workout_id, member_id, rating, mood, energy_level, notes,
		 is_public, active_seconds, stats, completed_at
		 FROM workout_results
		 WHERE member_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2`, memberID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying workout results: %w", err)
	}
	defer rows.Close()

	result := []models.WorkoutResult{}
	for rows.Next() {
		var r models.WorkoutResult
		if err := rows.Scan(&r.ID, &r.SessionID, &r.WorkoutID, &r.MemberID, &r.Rating, &r.Mood,
			&r.EnergyLevel, &r.Notes, &r.IsPublic, &r.ActiveSeconds, &r.Stats, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning workout result: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
