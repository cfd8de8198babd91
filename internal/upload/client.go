package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client sends template documents to the ForgePlan server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the ForgePlan server.
func NewClient(serverURL, apiKey string) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendWorkout POSTs a workout template document to the ingest endpoint.
func (c *Client) SendWorkout(doc json.RawMessage) error {
	return c.send("/api/v1/templates/workouts", doc)
}

// SendProgram POSTs a program template document to the ingest endpoint.
func (c *Client) SendProgram(doc json.RawMessage) error {
	return c.send("/api/v1/templates/programs", doc)
}

// send POSTs a document, retrying up to 3 times with exponential backoff.
// Rejections (4xx) are terminal: a structurally invalid document will not
// become valid on retry.
func (c *Client) send(path string, doc json.RawMessage) error {
	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+path, bytes.NewReader(doc))
		if err != nil {
			return fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("sending document: %w", err)
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusCreated:
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			return fmt.Errorf("server rejected document (status %d): %s", resp.StatusCode, body)
		default:
			lastErr = fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, body)
		}
	}
	return lastErr
}
