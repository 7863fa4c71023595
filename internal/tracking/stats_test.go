package tracking

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
)

// TestStatsEmptySession verifies a fresh session reports zero progress.
func TestStatsEmptySession(t *testing.T) {
	st := Stats(newTestSession(t, 3, 2))

	if st.TotalExercises != 2 || st.TotalSets != 5 {
		t.Errorf("totals = %d exercises, %d sets", st.TotalExercises, st.TotalSets)
	}
	if st.CompletedExercises != 0 || st.CompletedSets != 0 || st.TotalVolume != 0 {
		t.Errorf("unexpected progress: %+v", st)
	}
	if st.CompletionPercentage != 0 {
		t.Errorf("completion = %v, want 0", st.CompletionPercentage)
	}
}

// TestStatsNoExercises guards the division in the completion percentage.
func TestStatsNoExercises(t *testing.T) {
	st := Stats(&models.Session{})
	if st.CompletionPercentage != 0 {
		t.Errorf("completion = %v, want 0", st.CompletionPercentage)
	}
}

// TestStatsVolume checks that only completed sets with both weight and
// reps count towards volume.
func TestStatsVolume(t *testing.T) {
	s := newTestSession(t, 4)
	sets := s.Exercises[0].Sets

	sets[0].Status = models.ProgressCompleted
	sets[0].ActualWeightKg, sets[0].ActualReps = floatPtr(100), intPtr(5)

	sets[1].Status = models.ProgressCompleted
	sets[1].ActualReps = intPtr(10) // bodyweight, no weight

	sets[2].Status = models.ProgressInProgress
	sets[2].ActualWeightKg, sets[2].ActualReps = floatPtr(100), intPtr(5)

	sets[3].Status = models.ProgressCompleted
	sets[3].ActualWeightKg, sets[3].ActualReps = floatPtr(60), intPtr(8)

	st := Stats(s)
	if st.TotalVolume != 980 {
		t.Errorf("volume = %v, want 980", st.TotalVolume)
	}
	if st.CompletedSets != 3 {
		t.Errorf("completed sets = %d, want 3", st.CompletedSets)
	}
}

// TestStatsAverages checks the set time and rest time means.
func TestStatsAverages(t *testing.T) {
	s := newTestSession(t, 3)
	sets := s.Exercises[0].Sets

	sets[0].Status = models.ProgressCompleted
	sets[0].StartTime, sets[0].EndTime = timePtr(t0), timePtr(t0.Add(30*time.Second))
	sets[0].ActualRestSeconds = intPtr(90)

	sets[1].Status = models.ProgressCompleted
	sets[1].StartTime, sets[1].EndTime = timePtr(t0), timePtr(t0.Add(50*time.Second))
	sets[1].RestStartTime, sets[1].RestEndTime = timePtr(t0.Add(50*time.Second)), timePtr(t0.Add(170*time.Second))

	// completed without timestamps: no contribution to either average
	sets[2].Status = models.ProgressCompleted

	st := Stats(s)
	if st.AverageSetTime != 40 {
		t.Errorf("average set time = %v, want 40", st.AverageSetTime)
	}
	if st.AverageRestTime != 105 {
		t.Errorf("average rest time = %v, want 105", st.AverageRestTime)
	}
}

// TestStatsIgnoresInvertedSpans verifies a set patched to end before it
// started does not pull the averages below zero.
func TestStatsIgnoresInvertedSpans(t *testing.T) {
	s := newTestSession(t, 2)
	sets := s.Exercises[0].Sets

	sets[0].Status = models.ProgressCompleted
	sets[0].StartTime, sets[0].EndTime = timePtr(t0.Add(time.Minute)), timePtr(t0)
	sets[0].RestStartTime, sets[0].RestEndTime = timePtr(t0.Add(time.Minute)), timePtr(t0)

	sets[1].Status = models.ProgressCompleted
	sets[1].StartTime, sets[1].EndTime = timePtr(t0), timePtr(t0.Add(20*time.Second))

	st := Stats(s)
	if st.AverageSetTime != 20 {
		t.Errorf("average set time = %v, want 20", st.AverageSetTime)
	}
	if st.AverageRestTime != 0 {
		t.Errorf("average rest time = %v, want 0", st.AverageRestTime)
	}
}

// TestStatsScenario runs a session of three exercises (2, 1, 1 sets) through
// completing the first and skipping the second.
func TestStatsScenario(t *testing.T) {
	s := newTestSession(t, 2, 1, 1)
	first := s.Exercises[0].ExerciseID
	second := s.Exercises[1].ExerciseID

	steps := []func() error{
		func() error { return StartExercise(s, first, t0) },
		func() error { return StartSet(s, first, 1, t0) },
		func() error {
			return CompleteSet(s, first, 1, models.SetData{ActualReps: intPtr(10), ActualWeightKg: floatPtr(50)}, t0.Add(time.Minute))
		},
		func() error { return StartSet(s, first, 2, t0.Add(2*time.Minute)) },
		func() error {
			return CompleteSet(s, first, 2, models.SetData{ActualReps: intPtr(8), ActualWeightKg: floatPtr(50)}, t0.Add(3*time.Minute))
		},
		func() error { return CompleteExercise(s, first, t0.Add(3*time.Minute)) },
		func() error { return SkipExercise(s, second, t0.Add(4*time.Minute)) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	st := Stats(s)
	want := models.SessionStats{
		TotalExercises:     3,
		CompletedExercises: 1,
		SkippedExercises:   1,
		TotalSets:          4,
		CompletedSets:      2,
		TotalVolume:        900,
		AverageSetTime:     60,
	}
	pct := st.CompletionPercentage
	st.CompletionPercentage = 0
	if st != want {
		t.Errorf("stats = %+v\nwant    %+v", st, want)
	}
	if math.Abs(pct-100.0/3) > 1e-9 {
		t.Errorf("completion = %v, want 33.3", pct)
	}

	// finishing while exercises remain is allowed
	if err := CompleteSession(s, t0.Add(5*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if got := Stats(s).CompletionPercentage; got < 0 || got > 100 {
		t.Errorf("completion %v out of range", got)
	}
}

// TestTimerActiveSeconds covers running, paused and finished timers.
func TestTimerActiveSeconds(t *testing.T) {
	tests := []struct {
		name  string
		timer Timer
		now   time.Time
		want  int64
	}{
		{"not started", Timer{}, t0, 0},
		{"running", Timer{StartTime: timePtr(t0)}, t0.Add(90 * time.Second), 90},
		{"running with pauses", Timer{StartTime: timePtr(t0), PausedSeconds: 30}, t0.Add(90 * time.Second), 60},
		{"open pause", Timer{StartTime: timePtr(t0), PausedAt: timePtr(t0.Add(time.Minute))}, t0.Add(5 * time.Minute), 60},
		{"finished ignores now", Timer{StartTime: timePtr(t0), EndTime: timePtr(t0.Add(time.Hour)), PausedSeconds: 600}, t0.Add(48 * time.Hour), 3000},
		{"clamped", Timer{StartTime: timePtr(t0), PausedSeconds: 500}, t0.Add(time.Minute), 0},
		{"clock behind start", Timer{StartTime: timePtr(t0)}, t0.Add(-time.Minute), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.timer.ActiveSeconds(tt.now); got != tt.want {
				t.Errorf("ActiveSeconds = %d, want %d", got, tt.want)
			}
		})
	}
}

// TestKindOfWrapped verifies kinds survive fmt.Errorf wrapping.
func TestKindOfWrapped(t *testing.T) {
	err := Errorf(NotFound, "session x not found")
	wrapped := fmt.Errorf("loading session: %w", err)

	if KindOf(wrapped) != NotFound {
		t.Errorf("KindOf = %q, want %q", KindOf(wrapped), NotFound)
	}
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is should match by kind")
	}
	if errors.Is(wrapped, ErrConflict) {
		t.Error("errors.Is should not match another kind")
	}
	if KindOf(errors.New("disk full")) != "" {
		t.Error("plain errors have no kind")
	}
}
