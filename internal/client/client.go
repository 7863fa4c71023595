// Package client is a typed client for the liftlog REST API. It backs the
// stdio MCP binary and the command line client, where the binary runs
// locally and the data lives on the server (reached over Tailscale).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/mcp"
	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/google/uuid"
)

// Client calls the liftlog REST API. The server resolves the caller's
// identity, so the memberID arguments of the DataSource methods are ignored.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: Client satisfies mcp.DataSource.
var _ mcp.DataSource = (*Client)(nil)

// New creates a Client targeting the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// apiError is the JSON error body written by the server.
type apiError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StatusError is a non-2xx answer whose body carried no error kind, such as
// a 500 from a failed query or a 401 from the identity middleware.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: %s %s returned %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Unreachable reports whether err is a transport failure, meaning the
// request never got an answer from the server.
func Unreachable(err error) bool {
	var ue *url.Error
	return errors.As(err, &ue)
}

// do sends a request and decodes a JSON response into out. It reports
// false when the server answered 204 No Content. Error responses carrying
// a kind are returned as *tracking.Error so callers can branch on it.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, out any) (bool, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("client: encode %s body: %w", path, err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return false, fmt.Errorf("client: create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Kind != "" {
			return false, &tracking.Error{Kind: tracking.Kind(ae.Kind), Msg: ae.Error}
		}
		return false, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: string(bytes.TrimSpace(data))}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("client: decode %s: %w", path, err)
		}
	}
	return true, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) (bool, error) {
	return c.do(ctx, http.MethodGet, path, params, nil, out)
}

func limitParams(limit int) url.Values {
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

func sessionPath(id string, parts ...string) string {
	p := "/api/v1/sessions/" + url.PathEscape(id)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

func exercisePath(id string, exerciseID uuid.UUID, parts ...string) string {
	return sessionPath(id, append([]string{"exercises", exerciseID.String()}, parts...)...)
}

func setPath(id string, exerciseID uuid.UUID, number int, parts ...string) string {
	return exercisePath(id, exerciseID, append([]string{"sets", strconv.Itoa(number)}, parts...)...)
}

// --- Identity and catalog ---

// Me returns the identity the server resolved for this client.
func (c *Client) Me(ctx context.Context) (*models.Member, error) {
	var m struct {
		MemberID    int    `json:"member_id"`
		Login       string `json:"login"`
		DisplayName string `json:"display_name"`
	}
	if _, err := c.get(ctx, "/api/v1/me", nil, &m); err != nil {
		return nil, err
	}
	return &models.Member{ID: m.MemberID, Login: m.Login, DisplayName: m.DisplayName}, nil
}

func (c *Client) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var out []models.Exercise
	_, err := c.get(ctx, "/api/v1/exercises", nil, &out)
	return out, err
}

func (c *Client) CreateExercise(ctx context.Context, e models.Exercise) (*models.Exercise, error) {
	var out models.Exercise
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/exercises", nil, e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWorkouts(ctx context.Context, _ int) ([]models.Workout, error) {
	var out []models.Workout
	_, err := c.get(ctx, "/api/v1/workouts", nil, &out)
	return out, err
}

func (c *Client) CreateWorkout(ctx context.Context, w models.Workout) (*models.Workout, error) {
	var out models.Workout
	if _, err := c.do(ctx, http.MethodPost, "/api/v1/workouts", nil, w, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	var out models.Workout
	if _, err := c.get(ctx, "/api/v1/workouts/"+id.String(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListWorkoutResults(ctx context.Context, _ int, limit int) ([]models.WorkoutResult, error) {
	var out []models.WorkoutResult
	_, err := c.get(ctx, "/api/v1/results", limitParams(limit), &out)
	return out, err
}

// --- Sessions ---

func (c *Client) StartSession(ctx context.Context, req models.StartSessionRequest) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, "/api/v1/sessions", req)
}

// GetActiveSession returns the open session, or nil when there is none.
func (c *Client) GetActiveSession(ctx context.Context, _ int) (*tracking.SessionView, error) {
	var out tracking.SessionView
	ok, err := c.get(ctx, "/api/v1/sessions/active", nil, &out)
	if err != nil || !ok {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetSession(ctx context.Context, _ int, id string) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodGet, sessionPath(id), nil)
}

func (c *Client) ListSessions(ctx context.Context, _ int, f tracking.HistoryFilter) ([]models.Session, error) {
	params := limitParams(f.Limit)
	if f.WorkoutID != nil {
		params.Set("workout_id", f.WorkoutID.String())
	}
	var out []models.Session
	_, err := c.get(ctx, "/api/v1/sessions", params, &out)
	return out, err
}

func (c *Client) SessionStats(ctx context.Context, id string) (*models.SessionStats, error) {
	var out models.SessionStats
	if _, err := c.get(ctx, sessionPath(id, "stats"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PauseSession(ctx context.Context, id string) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, sessionPath(id, "pause"), nil)
}

func (c *Client) ResumeSession(ctx context.Context, id string) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, sessionPath(id, "resume"), nil)
}

func (c *Client) AbandonSession(ctx context.Context, id string) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, sessionPath(id, "abandon"), nil)
}

func (c *Client) CompleteSession(ctx context.Context, id string, comp tracking.Completion) (*tracking.CompletedSession, error) {
	var out tracking.CompletedSession
	if _, err := c.do(ctx, http.MethodPost, sessionPath(id, "complete"), nil, comp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Exercises and sets ---

func (c *Client) StartExercise(ctx context.Context, id string, exerciseID uuid.UUID) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, exercisePath(id, exerciseID, "start"), nil)
}

func (c *Client) CompleteExercise(ctx context.Context, id string, exerciseID uuid.UUID) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, exercisePath(id, exerciseID, "complete"), nil)
}

func (c *Client) SkipExercise(ctx context.Context, id string, exerciseID uuid.UUID) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, exercisePath(id, exerciseID, "skip"), nil)
}

func (c *Client) UpdateExerciseProgress(ctx context.Context, id string, exerciseID uuid.UUID, p models.ExercisePatch) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPatch, exercisePath(id, exerciseID), p)
}

func (c *Client) StartSet(ctx context.Context, id string, exerciseID uuid.UUID, number int) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, setPath(id, exerciseID, number, "start"), nil)
}

func (c *Client) CompleteSet(ctx context.Context, id string, exerciseID uuid.UUID, number int, d models.SetData) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPost, setPath(id, exerciseID, number, "complete"), d)
}

func (c *Client) UpdateSetProgress(ctx context.Context, id string, exerciseID uuid.UUID, number int, d models.SetData) (*tracking.SessionView, error) {
	return c.sessionCall(ctx, http.MethodPatch, setPath(id, exerciseID, number), d)
}

func (c *Client) sessionCall(ctx context.Context, method, path string, body any) (*tracking.SessionView, error) {
	var out tracking.SessionView
	if _, err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
