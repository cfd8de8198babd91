package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/forgeplan/internal/models"
)

func intPtr(v int) *int { return &v }

func testProgram(dayIndexes ...*int) *models.Program {
	p := &models.Program{
		ID:            uuid.New(),
		Name:          "Base Block",
		Slug:          "base-block",
		DurationWeeks: 4,
		CurrentCycle:  models.CycleBase,
	}
	for i, di := range dayIndexes {
		p.Workouts = append(p.Workouts, models.Workout{
			ID:        uuid.New(),
			Name:      "Day " + string(rune('A'+i)),
			Archetype: models.ArchetypePR1ME,
			DayIndex:  di,
		})
	}
	return p
}

// TestPlanProgramDates verifies consecutive-day placement: the i-th workout
// (by day index) lands on start + i days, regardless of day-index gaps.
func TestPlanProgramDates(t *testing.T) {
	p := testProgram(intPtr(0), intPtr(2), intPtr(5)) // gaps collapse
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	entries := PlanProgram(p, 1, start)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4 (marker + 3 workouts)", len(entries))
	}

	marker := entries[0]
	if !marker.IsProgramRef() {
		t.Error("first entry is not the program marker")
	}
	if *marker.ProgramID != p.ID {
		t.Errorf("marker program = %s, want %s", marker.ProgramID, p.ID)
	}
	if !marker.ScheduledAt.Equal(start) {
		t.Errorf("marker date = %v, want %v", marker.ScheduledAt, start)
	}

	for i, e := range entries[1:] {
		want := start.AddDate(0, 0, i)
		if !e.ScheduledAt.Equal(want) {
			t.Errorf("workout %d date = %v, want %v", i, e.ScheduledAt, want)
		}
		if *e.WorkoutID != p.Workouts[i].ID {
			t.Errorf("workout %d id = %s, want %s", i, e.WorkoutID, p.Workouts[i].ID)
		}
		if e.Order != nil {
			t.Errorf("workout %d carries order %d before insert", i, *e.Order)
		}
	}
}

// TestPlanProgramDayIndexSort verifies sorting by day index with unindexed
// workouts appended in template order.
func TestPlanProgramDayIndexSort(t *testing.T) {
	p := testProgram(nil, intPtr(1), intPtr(0), nil)
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	entries := PlanProgram(p, 1, start)
	got := entries[1:]
	wantOrder := []uuid.UUID{p.Workouts[2].ID, p.Workouts[1].ID, p.Workouts[0].ID, p.Workouts[3].ID}
	for i, e := range got {
		if *e.WorkoutID != wantOrder[i] {
			t.Errorf("position %d = workout %s, want %s", i, e.WorkoutID, wantOrder[i])
		}
	}
}

func TestPlanProgramEmpty(t *testing.T) {
	p := testProgram()
	entries := PlanProgram(p, 1, time.Now())
	if entries == nil {
		t.Fatal("PlanProgram(empty) = nil, want empty slice")
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0 (no marker for an empty program)", len(entries))
	}
}

// TestPlanProgramKeepsTimeOfDay verifies the chosen time-of-day survives onto
// every entry.
func TestPlanProgramKeepsTimeOfDay(t *testing.T) {
	p := testProgram(intPtr(0), intPtr(1))
	start := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)

	for _, e := range PlanProgram(p, 1, start) {
		if e.ScheduledAt.Hour() != 17 || e.ScheduledAt.Minute() != 30 {
			t.Errorf("entry time = %v, want 17:30", e.ScheduledAt)
		}
	}
}

func TestPlanProgramUserID(t *testing.T) {
	p := testProgram(intPtr(0))
	for _, e := range PlanProgram(p, 42, time.Now()) {
		if e.UserID != 42 {
			t.Errorf("entry user = %d, want 42", e.UserID)
		}
	}
}
