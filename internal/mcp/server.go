package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const memberIDKey contextKey = iota

// MemberIDFromContext extracts the member ID injected by the transport layer.
func MemberIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(memberIDKey).(int); ok {
		return id
	}
	return 1
}

// WithMemberID returns a context with the given member ID.
func WithMemberID(ctx context.Context, memberID int) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("liftlog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("liftlog workout tracker. Read the active workout session, session history with per-set progress, workout plans and completed workout results. All data is scoped to the authenticated member."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetActiveSession, Handler: h.getActiveSession},
		server.ServerTool{Tool: toolGetSession, Handler: h.getSession},
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolListResults, Handler: h.listResults},
	)

	s.AddResources(
		server.ServerResource{Resource: resActiveSession, Handler: h.activeSession},
		server.ServerResource{Resource: resRecentResults, Handler: h.recentResults},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resActiveSession = mcp.NewResource(
	"liftlog://active_session",
	"Active Session",
	mcp.WithResourceDescription("The member's Active or Paused workout session with progress, stats and active time, or null"),
	mcp.WithMIMEType("application/json"),
)

var resRecentResults = mcp.NewResource(
	"liftlog://recent_results",
	"Recent Results",
	mcp.WithResourceDescription("The 10 most recent completed workout results"),
	mcp.WithMIMEType("application/json"),
)
