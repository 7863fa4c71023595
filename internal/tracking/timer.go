package tracking

import (
	"time"

	"github.com/claude/liftlog/internal/models"
)

// Timer is the wall-clock view of a session. It holds no clock of its own;
// every value is computed from stored timestamps.
type Timer struct {
	StartTime     *time.Time
	EndTime       *time.Time
	PausedAt      *time.Time
	PausedSeconds int64
}

// TimerOf extracts the timer fields of s.
func TimerOf(s *models.Session) Timer {
	return Timer{
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		PausedAt:      s.PausedAt,
		PausedSeconds: s.PausedSeconds,
	}
}

// ActiveSeconds is (end or now) - start - paused time, never negative.
// A pause still open at the reference instant is excluded too.
func (t Timer) ActiveSeconds(now time.Time) int64 {
	if t.StartTime == nil {
		return 0
	}
	ref := now
	if t.EndTime != nil {
		ref = *t.EndTime
	}
	active := seconds(ref.Sub(*t.StartTime)) - t.PausedSeconds
	if t.PausedAt != nil {
		active -= seconds(ref.Sub(*t.PausedAt))
	}
	if active < 0 {
		return 0
	}
	return active
}

func seconds(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}
