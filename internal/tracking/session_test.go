package tracking

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/models"
	"github.com/google/uuid"
)

var t0 = time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func strPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func plan(sets ...int) []models.PlannedExercise {
	p := make([]models.PlannedExercise, len(sets))
	for i, n := range sets {
		p[i] = models.PlannedExercise{
			ExerciseID:     uuid.New(),
			ExerciseName:   "exercise",
			OrderInWorkout: i,
		}
		if n > 0 {
			p[i].Sets = intPtr(n)
		}
	}
	return p
}

func newTestSession(t *testing.T, sets ...int) *models.Session {
	t.Helper()
	s, err := NewSession("s1", uuid.New(), 1, plan(sets...), t0)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

// TestNewSessionBuildsPlan verifies one ExerciseProgress per planned exercise
// with the planned number of NotStarted sets, numbered from 1.
func TestNewSessionBuildsPlan(t *testing.T) {
	s := newTestSession(t, 2, 1, 1)

	if s.Status != models.SessionActive {
		t.Errorf("status = %s, want Active", s.Status)
	}
	if s.StartTime == nil || !s.StartTime.Equal(t0) {
		t.Errorf("start time = %v, want %v", s.StartTime, t0)
	}
	if len(s.Exercises) != 3 {
		t.Fatalf("exercises = %d, want 3", len(s.Exercises))
	}
	for i, want := range []int{2, 1, 1} {
		ex := s.Exercises[i]
		if ex.Status != models.ProgressNotStarted {
			t.Errorf("exercise %d status = %s, want NotStarted", i, ex.Status)
		}
		if len(ex.Sets) != want {
			t.Fatalf("exercise %d sets = %d, want %d", i, len(ex.Sets), want)
		}
		for j, set := range ex.Sets {
			if set.SetNumber != j+1 {
				t.Errorf("exercise %d set %d number = %d", i, j, set.SetNumber)
			}
			if set.Status != models.ProgressNotStarted {
				t.Errorf("exercise %d set %d status = %s", i, j, set.Status)
			}
			if set.ExerciseProgressID != ex.ID {
				t.Errorf("exercise %d set %d not linked to its exercise", i, j)
			}
		}
	}
}

// TestNewSessionDefaultsToOneSet verifies that an unspecified set count
// produces a single set.
func TestNewSessionDefaultsToOneSet(t *testing.T) {
	s := newTestSession(t, 0)
	if got := len(s.Exercises[0].Sets); got != 1 {
		t.Errorf("sets = %d, want 1", got)
	}
}

// TestNewSessionOrdersByOrderInWorkout verifies exercises are laid out in
// workout order regardless of the order the catalog supplied them in.
func TestNewSessionOrdersByOrderInWorkout(t *testing.T) {
	p := plan(1, 1, 1)
	p[0].OrderInWorkout, p[1].OrderInWorkout, p[2].OrderInWorkout = 2, 0, 1

	s, err := NewSession("s1", uuid.New(), 1, p, t0)
	if err != nil {
		t.Fatal(err)
	}
	for i, ex := range s.Exercises {
		if ex.OrderInWorkout != i {
			t.Errorf("position %d has order %d", i, ex.OrderInWorkout)
		}
	}
	if s.Exercises[0].ExerciseID != p[1].ExerciseID {
		t.Error("first exercise should be the one planned at order 0")
	}
}

// TestNewSessionRejectsBadPlans verifies the plan checks all report
// InvalidArgument.
func TestNewSessionRejectsBadPlans(t *testing.T) {
	dup := plan(1, 1)
	dup[1].ExerciseID = dup[0].ExerciseID

	negOrder := plan(1)
	negOrder[0].OrderInWorkout = -1

	negSets := plan(1)
	negSets[0].Sets = intPtr(-2)

	tests := []struct {
		name string
		id   string
		plan []models.PlannedExercise
	}{
		{"empty plan", "s1", nil},
		{"missing id", "", plan(1)},
		{"duplicate exercise", "s1", dup},
		{"negative order", "s1", negOrder},
		{"negative sets", "s1", negSets},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSession(tt.id, uuid.New(), 1, tt.plan, t0)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("err = %v, want InvalidArgument", err)
			}
		})
	}
}

// TestSessionTransitions walks every lifecycle command from every status and
// checks that only the documented edges succeed.
func TestSessionTransitions(t *testing.T) {
	type cmd struct {
		name string
		fn   func(*models.Session, time.Time) error
	}
	cmds := []cmd{
		{"pause", PauseSession},
		{"resume", ResumeSession},
		{"complete", CompleteSession},
		{"abandon", AbandonSession},
	}
	allowed := map[models.SessionStatus]map[string]models.SessionStatus{
		models.SessionNotStarted: {"abandon": models.SessionAbandoned},
		models.SessionActive:     {"pause": models.SessionPaused, "complete": models.SessionCompleted, "abandon": models.SessionAbandoned},
		models.SessionPaused:     {"resume": models.SessionActive, "complete": models.SessionCompleted, "abandon": models.SessionAbandoned},
		models.SessionCompleted:  {},
		models.SessionAbandoned:  {},
	}

	for from, edges := range allowed {
		for _, c := range cmds {
			t.Run(string(from)+"/"+c.name, func(t *testing.T) {
				s := newTestSession(t, 1)
				s.Status = from
				if from == models.SessionPaused {
					s.PausedAt = timePtr(t0)
				}
				before := s.UpdatedAt

				err := c.fn(s, t0.Add(time.Minute))
				want, ok := edges[c.name]
				if !ok {
					if !errors.Is(err, ErrInvalidState) {
						t.Fatalf("err = %v, want InvalidState", err)
					}
					if s.Status != from || !s.UpdatedAt.Equal(before) {
						t.Errorf("rejected command changed the session")
					}
					return
				}
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if s.Status != want {
					t.Errorf("status = %s, want %s", s.Status, want)
				}
			})
		}
	}
}

// TestPauseResumeAccumulates verifies that a pause/resume cycle leaves the
// start time alone and adds exactly the paused duration.
func TestPauseResumeAccumulates(t *testing.T) {
	s := newTestSession(t, 1)
	start := *s.StartTime

	if err := PauseSession(s, t0.Add(10*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := ResumeSession(s, t0.Add(13*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := PauseSession(s, t0.Add(20*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := ResumeSession(s, t0.Add(20*time.Minute+30*time.Second)); err != nil {
		t.Fatal(err)
	}

	if !s.StartTime.Equal(start) {
		t.Errorf("start time moved to %v", s.StartTime)
	}
	if s.PausedSeconds != 210 {
		t.Errorf("paused seconds = %d, want 210", s.PausedSeconds)
	}
	if s.PausedAt != nil {
		t.Error("paused_at should be cleared after resume")
	}
}

// TestCompleteWhilePausedClosesPause verifies that finishing a paused
// session counts the open pause as paused time.
func TestCompleteWhilePausedClosesPause(t *testing.T) {
	s := newTestSession(t, 1)
	if err := PauseSession(s, t0.Add(30*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := CompleteSession(s, t0.Add(40*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if s.PausedSeconds != 600 {
		t.Errorf("paused seconds = %d, want 600", s.PausedSeconds)
	}
	if got := TimerOf(s).ActiveSeconds(t0.Add(5 * time.Hour)); got != 1800 {
		t.Errorf("active seconds = %d, want 1800", got)
	}
}

// TestAbandonCompletedSession pins the terminal-state policy: a completed
// session cannot be abandoned.
func TestAbandonCompletedSession(t *testing.T) {
	s := newTestSession(t, 1)
	if err := CompleteSession(s, t0.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}
	end := *s.EndTime
	if err := AbandonSession(s, t0.Add(2*time.Hour)); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("err = %v, want InvalidState", err)
	}
	if s.Status != models.SessionCompleted || !s.EndTime.Equal(end) {
		t.Error("completed session was modified")
	}
}
