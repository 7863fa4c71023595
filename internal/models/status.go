package models

import (
	"fmt"
	"strings"
)

// SessionStatus is the lifecycle state of a workout session.
// Stored and serialized as its string value.
type SessionStatus string

const (
	SessionNotStarted SessionStatus = "NotStarted"
	SessionActive     SessionStatus = "Active"
	SessionPaused     SessionStatus = "Paused"
	SessionCompleted  SessionStatus = "Completed"
	SessionAbandoned  SessionStatus = "Abandoned"
)

// IsTerminal reports whether no further transitions are possible.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionCompleted || s == SessionAbandoned
}

// IsOpen reports whether the session counts as the member's active session.
func (s SessionStatus) IsOpen() bool {
	return s == SessionActive || s == SessionPaused
}

// ProgressStatus is the lifecycle state shared by exercises and sets.
type ProgressStatus string

const (
	ProgressNotStarted ProgressStatus = "NotStarted"
	ProgressInProgress ProgressStatus = "InProgress"
	ProgressCompleted  ProgressStatus = "Completed"
	ProgressSkipped    ProgressStatus = "Skipped"
)

// IsTerminal reports whether the exercise or set is finished.
func (s ProgressStatus) IsTerminal() bool {
	return s == ProgressCompleted || s == ProgressSkipped
}

var sessionStatusMap = map[string]SessionStatus{
	"notstarted": SessionNotStarted,
	"active":     SessionActive,
	"paused":     SessionPaused,
	"completed":  SessionCompleted,
	"abandoned":  SessionAbandoned,
}

var progressStatusMap = map[string]ProgressStatus{
	"notstarted": ProgressNotStarted,
	"inprogress": ProgressInProgress,
	"completed":  ProgressCompleted,
	"skipped":    ProgressSkipped,
}

// statusKey folds "In Progress", "in_progress" and "InProgress" to one key.
func statusKey(raw string) string {
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(raw)))
}

// ParseSessionStatus accepts the canonical names case-insensitively.
func ParseSessionStatus(raw string) (SessionStatus, error) {
	if s, ok := sessionStatusMap[statusKey(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown session status %q", raw)
}

// ParseProgressStatus accepts the canonical names case-insensitively.
func ParseProgressStatus(raw string) (ProgressStatus, error) {
	if s, ok := progressStatusMap[statusKey(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("unknown progress status %q", raw)
}

// UnmarshalText makes JSON decoding reject unknown values.
func (s *ProgressStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseProgressStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalText makes JSON decoding reject unknown values.
func (s *SessionStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
