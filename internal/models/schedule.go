package models

import (
	"time"

	"github.com/google/uuid"
)

// ScheduledWorkout is a date-anchored, user-owned instance produced by program
// expansion or direct scheduling. Exactly one of WorkoutID/ProgramID is set:
// workout entries are the canonical trackable instances, program entries are
// display-grouping markers carrying no per-day order and no completion state.
type ScheduledWorkout struct {
	ID          uuid.UUID  `json:"id"`
	UserID      int        `json:"-"`
	WorkoutID   *uuid.UUID `json:"workoutId,omitempty"`
	ProgramID   *uuid.UUID `json:"programId,omitempty"`
	ScheduledAt time.Time  `json:"scheduledDate"`
	Order       *int       `json:"order,omitempty"`
	DurationMin *int       `json:"duration,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	IsCompleted bool       `json:"isCompleted"`

	// Joined template summaries, populated on read paths only.
	Workout *WorkoutSummary `json:"workout,omitempty"`
	Program *ProgramSummary `json:"program,omitempty"`
}

// IsProgramRef reports whether the entry is a program display-grouping marker
// rather than a trackable workout instance.
func (s *ScheduledWorkout) IsProgramRef() bool {
	return s.ProgramID != nil && s.WorkoutID == nil
}

// WorkoutSummary is the slice of a workout template joined onto schedule reads.
type WorkoutSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DisplayCode string    `json:"displayCode"`
	Archetype   Archetype `json:"archetype"`
}

// ProgramSummary is the slice of a program joined onto schedule reads.
type ProgramSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// Progress aggregates completion over a date window. Percentage uses half-up
// rounding and is 0 when Total is 0.
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}
