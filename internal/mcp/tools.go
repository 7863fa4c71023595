package mcp

import (
	"context"

	"github.com/claude/liftlog/internal/tracking"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

const recentResultsLimit = 10

// --- Tool definitions ---

var toolGetActiveSession = mcp.NewTool("get_active_session",
	mcp.WithDescription("Get the member's current Active or Paused workout session, including every exercise and set, derived stats (volume, completion percentage, average set and rest time) and active seconds. Returns null when no session is open."),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Get one workout session by id with all exercise and set progress, stats and active seconds."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Session id")),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List the member's workout sessions newest first. Returns session headers (status, start/end time, paused seconds) without exercises."),
	mcp.WithString("workout_id", mcp.Description("Only sessions of this workout (UUID)")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions. Defaults to 50.")),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List the member's workout plans with their format and planned exercises (sets, reps, weight, distance, duration and rest targets)."),
)

var toolListResults = mcp.NewTool("list_results",
	mcp.WithDescription("List completed workout results newest first: rating, mood, energy level, active seconds and the session stats at completion."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of results. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) getActiveSession(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	view, err := h.ds.GetActiveSession(ctx, MemberIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_active_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(view)
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	view, err := h.ds.GetSession(ctx, MemberIDFromContext(ctx), id)
	if err != nil {
		if tracking.KindOf(err) == "" {
			h.log.Error("mcp get_session", "error", err)
		}
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(view)
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := tracking.HistoryFilter{Limit: req.GetInt("limit", 0)}
	if v := req.GetString("workout_id", ""); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
		}
		f.WorkoutID = &id
	}

	sessions, err := h.ds.ListSessions(ctx, MemberIDFromContext(ctx), f)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(sessions)
}

func (h *handlers) listWorkouts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.ListWorkouts(ctx, MemberIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(workouts)
}

func (h *handlers) listResults(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	results, err := h.ds.ListWorkoutResults(ctx, MemberIDFromContext(ctx), req.GetInt("limit", 0))
	if err != nil {
		h.log.Error("mcp list_results", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(results)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
