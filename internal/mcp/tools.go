package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the next 7 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = time.Now()
	}

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = start.AddDate(0, 0, 7)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Retrieve the user's scheduled workouts for a date range, in calendar order. Each entry includes its workout or program summary and completion state."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days from start.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Get completion progress (completed, total, percentage) over the user's scheduled workouts in a date range."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to today.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to 7 days from start.")),
)

var toolScheduleProgram = mcp.NewTool("schedule_program",
	mcp.WithDescription("Expand a training program template onto the user's calendar: one workout per day starting at the given date. Returns the created schedule entries."),
	mcp.WithString("program_id", mcp.Required(), mcp.Description("Program template UUID")),
	mcp.WithString("start", mcp.Required(), mcp.Description("First workout date (ISO 8601 or YYYY-MM-DD)")),
)

var toolScheduleWorkout = mcp.NewTool("schedule_workout",
	mcp.WithDescription("Schedule a single workout template on a given date. Returns the created schedule entry."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout template UUID")),
	mcp.WithString("date", mcp.Required(), mcp.Description("Date to schedule on (ISO 8601 or YYYY-MM-DD)")),
	mcp.WithNumber("duration", mcp.Description("Planned duration in minutes")),
)

var toolCompleteWorkout = mcp.NewTool("complete_workout",
	mcp.WithDescription("Mark a scheduled workout as completed (or not completed)."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Schedule entry UUID")),
	mcp.WithBoolean("completed", mcp.Description("Completion state. Defaults to true.")),
)

var toolListPrograms = mcp.NewTool("list_programs",
	mcp.WithDescription("List all available training program templates with level, goal, duration, and training cycle."),
)

var toolGetWorkoutTemplate = mcp.NewTool("get_workout_template",
	mcp.WithDescription("Get a workout template in full: sections, blocks, and per-tier prescriptions (SILVER, GOLD, BLACK)."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout template UUID")),
)

// --- Tool handlers ---

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	entries, err := h.ds.GetSchedule(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	progress, err := h.ds.GetProgress(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(progress)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) scheduleProgram(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("program_id")
	if err != nil {
		return mcp.NewToolResultError("program_id parameter is required"), nil
	}
	programID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid program_id: " + err.Error()), nil
	}

	startStr, err := req.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError("start parameter is required"), nil
	}
	start, err := parseFlexTime(startStr)
	if err != nil {
		return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	entries, err := h.ds.ScheduleProgram(ctx, programID, start, uid)
	if err != nil {
		h.log.Error("mcp schedule_program", "error", err)
		return mcp.NewToolResultError("scheduling failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) scheduleWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	workoutID, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id: " + err.Error()), nil
	}

	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	at, err := parseFlexTime(dateStr)
	if err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}

	var durationMin *int
	if d := req.GetInt("duration", 0); d > 0 {
		durationMin = &d
	}

	uid := UserIDFromContext(ctx)
	entry, err := h.ds.ScheduleWorkout(ctx, workoutID, at, durationMin, uid)
	if err != nil {
		h.log.Error("mcp schedule_workout", "error", err)
		return mcp.NewToolResultError("scheduling failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entry)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) completeWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid id: " + err.Error()), nil
	}

	completed := req.GetBool("completed", true)
	uid := UserIDFromContext(ctx)

	if err := h.ds.SetWorkoutCompleted(ctx, id, completed, uid); err != nil {
		h.log.Error("mcp complete_workout", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}

	return mcp.NewToolResultText("ok"), nil
}

func (h *handlers) listPrograms(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp list_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(programs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid id: " + err.Error()), nil
	}

	w, err := h.ds.GetWorkoutTemplate(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout_template", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
