package models

import "github.com/google/uuid"

// Workout is a single training-session template: an ordered list of sections
// under one archetype. DayIndex places the workout within its owning program's
// cycle; it is nil for standalone workouts.
type Workout struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	DisplayCode string     `json:"displayCode"`
	Archetype   Archetype  `json:"archetype"`
	DayIndex    *int       `json:"dayIndex,omitempty"`
	Sections    []Section  `json:"sections"`
	ProgramID   *uuid.UUID `json:"programId,omitempty"`
}

// EmomTiming is the interval cadence for an EMOM section. It exists only on
// sections with type EMOM; the rules package rejects it anywhere else.
type EmomTiming struct {
	WorkSec int `json:"workSec"`
	RestSec int `json:"restSec"`
	Rounds  int `json:"rounds"`
}

// Section is one ordered phase within a workout. Timing is a tagged variant on
// Type: Emom is set iff Type is EMOM, DurationSec is set iff Type is AMRAP or
// CAPACITY (and optionally on OTHER, for timed rest).
type Section struct {
	Order       int         `json:"order"`
	Title       string      `json:"title"`
	Type        SectionType `json:"type"`
	Note        string      `json:"note,omitempty"`
	Emom        *EmomTiming `json:"emom,omitempty"`
	DurationSec *int        `json:"durationSec,omitempty"`
	Blocks      []Block     `json:"blocks"`
}

// Block is one exercise instruction within a section.
type Block struct {
	Order        int                `json:"order"`
	Label        string             `json:"label"`
	ExerciseName string             `json:"exerciseName"`
	Description  string             `json:"description,omitempty"`
	RepScheme    string             `json:"repScheme,omitempty"`
	Distance     *float64           `json:"distance,omitempty"`
	DistanceUnit string             `json:"distanceUnit,omitempty"`
	Tiers        []TierPrescription `json:"tiers,omitempty"`
}

// TierPrescription is a load/rep target for one skill tier of a block.
// At most one prescription per tier per block.
type TierPrescription struct {
	Tier       Tier   `json:"tier"`
	Load       string `json:"load"`
	TargetReps *int   `json:"targetReps,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// TierFor returns the prescription for the given tier, or nil if the block
// does not prescribe it.
func (b *Block) TierFor(t Tier) *TierPrescription {
	for i := range b.Tiers {
		if b.Tiers[i].Tier == t {
			return &b.Tiers[i]
		}
	}
	return nil
}
