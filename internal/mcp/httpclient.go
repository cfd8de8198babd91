package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/forgeplan/internal/models"
)

// HTTPClient implements DataSource by calling the ForgePlan REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// schedule data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: *HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, data)
	}

	return data, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

func dateParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("startDate", start.Format(time.RFC3339))
	v.Set("endDate", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) GetSchedule(ctx context.Context, start, end time.Time, _ int) ([]models.ScheduledWorkout, error) {
	body, err := c.get(ctx, "/api/v1/schedule", dateParams(start, end))
	if err != nil {
		return nil, err
	}

	var entries []models.ScheduledWorkout
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode schedule: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) GetProgress(ctx context.Context, start, end time.Time, _ int) (*models.Progress, error) {
	body, err := c.get(ctx, "/api/v1/me/programs/schedule", dateParams(start, end))
	if err != nil {
		return nil, err
	}

	var resp struct {
		Progress models.Progress `json:"progress"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode progress: %w", err)
	}
	return &resp.Progress, nil
}

func (c *HTTPClient) ScheduleProgram(ctx context.Context, programID uuid.UUID, start time.Time, _ int) ([]models.ScheduledWorkout, error) {
	payload := map[string]string{
		"programId": programID.String(),
		"startDate": start.Format("2006-01-02"),
		"startTime": start.Format("15:04"),
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/schedule/program", nil, payload)
	if err != nil {
		return nil, err
	}

	var entries []models.ScheduledWorkout
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("httpclient: decode scheduled program: %w", err)
	}
	return entries, nil
}

func (c *HTTPClient) ScheduleWorkout(ctx context.Context, workoutID uuid.UUID, at time.Time, durationMin *int, _ int) (*models.ScheduledWorkout, error) {
	payload := map[string]any{
		"workoutId":     workoutID.String(),
		"scheduledDate": at.Format(time.RFC3339),
	}
	if durationMin != nil {
		payload["duration"] = *durationMin
	}

	body, err := c.do(ctx, http.MethodPost, "/api/v1/schedule", nil, payload)
	if err != nil {
		return nil, err
	}

	var entry models.ScheduledWorkout
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("httpclient: decode scheduled workout: %w", err)
	}
	return &entry, nil
}

func (c *HTTPClient) SetWorkoutCompleted(ctx context.Context, id uuid.UUID, completed bool, _ int) error {
	action := "complete"
	if !completed {
		action = "uncomplete"
	}

	_, err := c.do(ctx, http.MethodPost, "/api/v1/schedule/"+id.String()+"/"+action, nil, nil)
	return err
}

func (c *HTTPClient) ListPrograms(ctx context.Context) ([]models.Program, error) {
	body, err := c.get(ctx, "/api/v1/templates/programs", nil)
	if err != nil {
		return nil, err
	}

	var programs []models.Program
	if err := json.Unmarshal(body, &programs); err != nil {
		return nil, fmt.Errorf("httpclient: decode programs: %w", err)
	}
	return programs, nil
}

func (c *HTTPClient) GetWorkoutTemplate(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	body, err := c.get(ctx, "/api/v1/templates/workouts/"+id.String(), nil)
	if err != nil {
		return nil, err
	}

	var w models.Workout
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, fmt.Errorf("httpclient: decode workout: %w", err)
	}
	return &w, nil
}
