package models

import "github.com/google/uuid"

// Program is a named multi-week training template: an ordered list of workout
// templates placed on a day-of-cycle grid via each workout's DayIndex.
// Programs are versionless and read-mostly; scheduling never mutates them.
type Program struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Level         string    `json:"level,omitempty"`
	Goal          string    `json:"goal,omitempty"`
	DurationWeeks int       `json:"durationWeeks"`
	CurrentCycle  Cycle     `json:"currentCycle"`
	IsPublic      bool      `json:"isPublic"`
	Workouts      []Workout `json:"workouts"`
}

// MaxDayIndex returns the largest DayIndex across the program's workouts,
// or -1 when no workout carries one.
func (p *Program) MaxDayIndex() int {
	max := -1
	for i := range p.Workouts {
		if di := p.Workouts[i].DayIndex; di != nil && *di > max {
			max = *di
		}
	}
	return max
}
