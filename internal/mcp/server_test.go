package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/claude/liftlog/internal/models"
	"github.com/claude/liftlog/internal/tracking"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// fakeSource records the member and filter of each call.
type fakeSource struct {
	active   *tracking.SessionView
	sessions map[string]*tracking.SessionView
	results  []models.WorkoutResult
	err      error

	gotMember int
	gotFilter tracking.HistoryFilter
	gotLimit  int
}

func (f *fakeSource) GetActiveSession(_ context.Context, memberID int) (*tracking.SessionView, error) {
	f.gotMember = memberID
	return f.active, f.err
}

func (f *fakeSource) GetSession(_ context.Context, memberID int, id string) (*tracking.SessionView, error) {
	f.gotMember = memberID
	v, ok := f.sessions[id]
	if !ok {
		return nil, tracking.Errorf(tracking.NotFound, "session %s not found", id)
	}
	return v, nil
}

func (f *fakeSource) ListSessions(_ context.Context, memberID int, flt tracking.HistoryFilter) ([]models.Session, error) {
	f.gotMember = memberID
	f.gotFilter = flt
	return []models.Session{}, f.err
}

func (f *fakeSource) ListWorkouts(_ context.Context, memberID int) ([]models.Workout, error) {
	f.gotMember = memberID
	return []models.Workout{{Name: "Push"}}, f.err
}

func (f *fakeSource) ListWorkoutResults(_ context.Context, memberID, limit int) ([]models.WorkoutResult, error) {
	f.gotMember = memberID
	f.gotLimit = limit
	return f.results, f.err
}

func newHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("expected content in result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", res.Content[0])
	}
	return text.Text
}

// TestMemberIDFromContextDefault verifies the default member ID (1) when no
// value is set in the context.
func TestMemberIDFromContextDefault(t *testing.T) {
	if id := MemberIDFromContext(context.Background()); id != 1 {
		t.Errorf("MemberIDFromContext(empty) = %d, want 1", id)
	}
}

// TestMemberIDFromContextSet verifies the member ID is extracted from context
// after being set by WithMemberID.
func TestMemberIDFromContextSet(t *testing.T) {
	ctx := WithMemberID(context.Background(), 42)
	if id := MemberIDFromContext(ctx); id != 42 {
		t.Errorf("MemberIDFromContext = %d, want 42", id)
	}
}

// TestGetActiveSessionScoped verifies the tool reads the active session of
// the member carried by the context.
func TestGetActiveSessionScoped(t *testing.T) {
	ds := &fakeSource{active: &tracking.SessionView{Session: models.Session{ID: "s1", Status: models.SessionPaused}}}
	h := newHandlers(ds)

	res, err := h.getActiveSession(WithMemberID(context.Background(), 7), callRequest("get_active_session", nil))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	if ds.gotMember != 7 {
		t.Errorf("member = %d, want 7", ds.gotMember)
	}

	var got tracking.SessionView
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "s1" || got.Status != models.SessionPaused {
		t.Errorf("session = %s/%s, want s1/Paused", got.ID, got.Status)
	}
}

// TestGetSessionErrors verifies missing arguments and unknown sessions come
// back as tool errors, not protocol errors.
func TestGetSessionErrors(t *testing.T) {
	h := newHandlers(&fakeSource{})

	res, err := h.getSession(context.Background(), callRequest("get_session", map[string]any{}))
	if err != nil || !res.IsError {
		t.Errorf("missing id: err = %v, IsError = %v", err, res.IsError)
	}

	res, err = h.getSession(context.Background(), callRequest("get_session", map[string]any{"id": "nope"}))
	if err != nil || !res.IsError {
		t.Errorf("unknown id: err = %v, IsError = %v", err, res.IsError)
	}
}

// TestListSessionsFilter verifies workout_id and limit arguments reach the
// data source and a malformed workout_id is rejected.
func TestListSessionsFilter(t *testing.T) {
	ds := &fakeSource{}
	h := newHandlers(ds)
	wid := uuid.New()

	res, err := h.listSessions(context.Background(), callRequest("list_sessions", map[string]any{
		"workout_id": wid.String(),
		"limit":      5,
	}))
	if err != nil || res.IsError {
		t.Fatalf("list_sessions failed: %v", err)
	}
	if ds.gotFilter.WorkoutID == nil || *ds.gotFilter.WorkoutID != wid {
		t.Errorf("workout filter = %v, want %s", ds.gotFilter.WorkoutID, wid)
	}
	if ds.gotFilter.Limit != 5 {
		t.Errorf("limit = %d, want 5", ds.gotFilter.Limit)
	}

	res, _ = h.listSessions(context.Background(), callRequest("list_sessions", map[string]any{"workout_id": "abc"}))
	if !res.IsError {
		t.Error("expected tool error for malformed workout_id")
	}
}

// TestDataSourceFailure verifies storage failures surface as tool errors.
func TestDataSourceFailure(t *testing.T) {
	h := newHandlers(&fakeSource{err: errors.New("connection refused")})

	res, err := h.listWorkouts(context.Background(), callRequest("list_workouts", nil))
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsError {
		t.Error("expected tool error")
	}
}

// TestRecentResultsResource verifies the resource reads a bounded number of
// results and echoes the request URI.
func TestRecentResultsResource(t *testing.T) {
	ds := &fakeSource{results: []models.WorkoutResult{{SessionID: "s1", Rating: 5}}}
	h := newHandlers(ds)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "liftlog://recent_results"
	contents, err := h.recentResults(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if ds.gotLimit != recentResultsLimit {
		t.Errorf("limit = %d, want %d", ds.gotLimit, recentResultsLimit)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	text, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("expected TextResourceContents, got %T", contents[0])
	}
	if text.URI != "liftlog://recent_results" {
		t.Errorf("uri = %q", text.URI)
	}
	var got []models.WorkoutResult
	if err := json.Unmarshal([]byte(text.Text), &got); err != nil || len(got) != 1 || got[0].Rating != 5 {
		t.Errorf("results = %+v (err %v)", got, err)
	}
}
