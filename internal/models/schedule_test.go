package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIsProgramRef(t *testing.T) {
	wid := uuid.New()
	pid := uuid.New()

	entry := ScheduledWorkout{WorkoutID: &wid, ProgramID: &pid}
	if entry.IsProgramRef() {
		t.Error("entry with workout ID reported as program marker")
	}

	marker := ScheduledWorkout{ProgramID: &pid}
	if !marker.IsProgramRef() {
		t.Error("program-only entry not reported as marker")
	}
}

// TestScheduledWorkoutJSON verifies the wire shape: scheduledDate key,
// hidden user ID, and omitted order on program markers.
func TestScheduledWorkoutJSON(t *testing.T) {
	pid := uuid.New()
	marker := ScheduledWorkout{
		ID:          uuid.New(),
		UserID:      7,
		ProgramID:   &pid,
		ScheduledAt: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(marker)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"scheduledDate":"2026-03-02T09:00:00Z"`) {
		t.Errorf("JSON %s missing scheduledDate", s)
	}
	if strings.Contains(s, `"order"`) {
		t.Errorf("marker JSON %s carries order", s)
	}
	if strings.Contains(s, "UserID") || strings.Contains(s, `"7"`) || strings.Contains(s, `:7`) {
		t.Errorf("JSON %s leaks user ID", s)
	}
}
