package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("ForgePlan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("ForgePlan training scheduler. Browse program and workout templates, place them on the calendar, and track completion progress. All schedule data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolScheduleProgram, Handler: h.scheduleProgram},
		server.ServerTool{Tool: toolScheduleWorkout, Handler: h.scheduleWorkout},
		server.ServerTool{Tool: toolCompleteWorkout, Handler: h.completeWorkout},
		server.ServerTool{Tool: toolListPrograms, Handler: h.listPrograms},
		server.ServerTool{Tool: toolGetWorkoutTemplate, Handler: h.getWorkoutTemplate},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resUpcomingSchedule, Handler: h.upcomingSchedule},
		server.ServerResource{Resource: resProgramCatalog, Handler: h.programCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resUpcomingSchedule = mcp.NewResource(
	"forgeplan://upcoming_schedule",
	"Upcoming Schedule",
	mcp.WithResourceDescription("Scheduled workouts for the next 7 days with completion progress"),
	mcp.WithMIMEType("application/json"),
)

var resProgramCatalog = mcp.NewResource(
	"forgeplan://program_catalog",
	"Program Catalog",
	mcp.WithResourceDescription("All available training program templates with level, goal, and duration"),
	mcp.WithMIMEType("application/json"),
)
