package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/forgeplan/internal/models"
)

// --- Resource handlers ---

func (h *handlers) upcomingSchedule(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	start := time.Now()
	end := start.AddDate(0, 0, 7)

	entries, err := h.ds.GetSchedule(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp upcoming_schedule resource", "error", err)
		return nil, fmt.Errorf("upcoming schedule: %w", err)
	}

	progress, err := h.ds.GetProgress(ctx, start, end, uid)
	if err != nil {
		h.log.Error("mcp upcoming_schedule resource", "error", err)
		return nil, fmt.Errorf("upcoming schedule progress: %w", err)
	}

	payload := struct {
		Schedule []models.ScheduledWorkout `json:"schedule"`
		Progress *models.Progress          `json:"progress"`
	}{Schedule: entries, Progress: progress}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal upcoming schedule: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) programCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	programs, err := h.ds.ListPrograms(ctx)
	if err != nil {
		h.log.Error("mcp program_catalog resource", "error", err)
		return nil, fmt.Errorf("program catalog: %w", err)
	}

	data, err := json.Marshal(programs)
	if err != nil {
		return nil, fmt.Errorf("marshal program catalog: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
