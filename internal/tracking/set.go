package tracking

import (
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

// StartSet moves a set NotStarted -> InProgress.
func StartSet(s *models.Session, exerciseID uuid.UUID, number int, now time.Time) error {
	if err := requireActive(s); err != nil {
		return err
	}
	_, set, err := findSet(s, exerciseID, number)
	if err != nil {
		return err
	}
	if set.Status != models.ProgressNotStarted {
		return Errorf(InvalidState, "cannot start set %d of exercise %s: status is %s", number, exerciseID, set.Status)
	}

	start := now
	set.Status = models.ProgressInProgress
	set.StartTime = &start
	s.UpdatedAt = now
	return nil
}

// CompleteSet moves a set InProgress -> Completed and merges the reported
// values. Status and timestamps in d are ignored; the transition owns them.
func CompleteSet(s *models.Session, exerciseID uuid.UUID, number int, d models.SetData, now time.Time) error {
	if err := ValidateSetData(d); err != nil {
		return err
	}
	if err := requireActive(s); err != nil {
		return err
	}
	_, set, err := findSet(s, exerciseID, number)
	if err != nil {
		return err
	}
	if set.Status != models.ProgressInProgress {
		return Errorf(InvalidState, "cannot complete set %d of exercise %s: status is %s", number, exerciseID, set.Status)
	}

	mergeMeasurements(set, d)
	end := now
	set.Status = models.ProgressCompleted
	set.EndTime = &end
	s.UpdatedAt = now
	return nil
}

// PatchSet applies a raw partial update to any field of a set, status and
// timestamps included. Used for corrections after the fact.
func PatchSet(s *models.Session, exerciseID uuid.UUID, number int, d models.SetData, now time.Time) error {
	if err := ValidateSetData(d); err != nil {
		return err
	}
	if err := requireOpen(s); err != nil {
		return err
	}
	_, set, err := findSet(s, exerciseID, number)
	if err != nil {
		return err
	}

	if d.Status != nil {
		set.Status = *d.Status
	}
	if d.StartTime != nil {
		t := *d.StartTime
		set.StartTime = &t
	}
	if d.EndTime != nil {
		t := *d.EndTime
		set.EndTime = &t
	}
	mergeMeasurements(set, d)
	s.UpdatedAt = now
	return nil
}

// ValidateSetData checks ranges of the supplied values.
func ValidateSetData(d models.SetData) error {
	if d.RPE != nil && (*d.RPE < 1 || *d.RPE > 10) {
		return Errorf(InvalidArgument, "rpe must be between 1 and 10, got %d", *d.RPE)
	}
	if d.ActualWeightKg != nil && *d.ActualWeightKg < 0 {
		return Errorf(InvalidArgument, "actual_weight_kg must not be negative")
	}
	if d.ActualReps != nil && *d.ActualReps < 0 {
		return Errorf(InvalidArgument, "actual_reps must not be negative")
	}
	if d.ActualDistanceMeters != nil && *d.ActualDistanceMeters < 0 {
		return Errorf(InvalidArgument, "actual_distance_meters must not be negative")
	}
	if d.ActualDurationSeconds != nil && *d.ActualDurationSeconds < 0 {
		return Errorf(InvalidArgument, "actual_duration_seconds must not be negative")
	}
	if d.ActualRestSeconds != nil && *d.ActualRestSeconds < 0 {
		return Errorf(InvalidArgument, "actual_rest_seconds must not be negative")
	}
	return nil
}

func mergeMeasurements(set *models.SetProgress, d models.SetData) {
	if d.ActualReps != nil {
		v := *d.ActualReps
		set.ActualReps = &v
	}
	if d.ActualWeightKg != nil {
		v := *d.ActualWeightKg
		set.ActualWeightKg = &v
	}
	if d.ActualDistanceMeters != nil {
		v := *d.ActualDistanceMeters
		set.ActualDistanceMeters = &v
	}
	if d.ActualDurationSeconds != nil {
		v := *d.ActualDurationSeconds
		set.ActualDurationSeconds = &v
	}
	if d.RestStartTime != nil {
		v := *d.RestStartTime
		set.RestStartTime = &v
	}
	if d.RestEndTime != nil {
		v := *d.RestEndTime
		set.RestEndTime = &v
	}
	if d.ActualRestSeconds != nil {
		v := *d.ActualRestSeconds
		set.ActualRestSeconds = &v
	}
	if d.RPE != nil {
		v := *d.RPE
		set.RPE = &v
	}
	if d.Notes != nil {
		v := *d.Notes
		set.Notes = &v
	}
}
