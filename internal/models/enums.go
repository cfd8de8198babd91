package models

// Archetype is one of the six fixed training-session categories. The archetype
// determines which section types may appear in a workout (see internal/rules).
type Archetype string

const (
	ArchetypePR1ME     Archetype = "PR1ME"
	ArchetypeFORGE     Archetype = "FORGE"
	ArchetypeENGIN3    Archetype = "ENGIN3"
	ArchetypeCIRCUITX  Archetype = "CIRCUIT_X"
	ArchetypeCAPAC1TY  Archetype = "CAPAC1TY"
	ArchetypeFLOWSTATE Archetype = "FLOWSTATE"
)

// Archetypes lists all valid archetypes in display order.
var Archetypes = []Archetype{
	ArchetypePR1ME,
	ArchetypeFORGE,
	ArchetypeENGIN3,
	ArchetypeCIRCUITX,
	ArchetypeCAPAC1TY,
	ArchetypeFLOWSTATE,
}

// Valid reports whether a is one of the six known archetypes.
func (a Archetype) Valid() bool {
	switch a {
	case ArchetypePR1ME, ArchetypeFORGE, ArchetypeENGIN3,
		ArchetypeCIRCUITX, ArchetypeCAPAC1TY, ArchetypeFLOWSTATE:
		return true
	}
	return false
}

// SectionType classifies a single phase within a workout.
type SectionType string

const (
	SectionWarmup   SectionType = "WARMUP"
	SectionWave     SectionType = "WAVE"
	SectionSuperset SectionType = "SUPERSET"
	SectionEMOM     SectionType = "EMOM"
	SectionAMRAP    SectionType = "AMRAP"
	SectionForTime  SectionType = "FOR_TIME"
	SectionCircuit  SectionType = "CIRCUIT"
	SectionCapacity SectionType = "CAPACITY"
	SectionFlow     SectionType = "FLOW"
	SectionFinisher SectionType = "FINISHER"
	SectionCooldown SectionType = "COOLDOWN"
	SectionOther    SectionType = "OTHER"
)

// Valid reports whether t is one of the eleven known section types.
func (t SectionType) Valid() bool {
	switch t {
	case SectionWarmup, SectionWave, SectionSuperset, SectionEMOM, SectionAMRAP,
		SectionForTime, SectionCircuit, SectionCapacity, SectionFlow,
		SectionFinisher, SectionCooldown, SectionOther:
		return true
	}
	return false
}

// Tier is one of the three fixed difficulty bands used to scale a block's
// load/rep targets. Tier loads are free-text; SILVER < GOLD < BLACK difficulty
// ordering is content-authoring guidance, not a structural invariant.
type Tier string

const (
	TierSilver Tier = "SILVER"
	TierGold   Tier = "GOLD"
	TierBlack  Tier = "BLACK"
)

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	return t == TierSilver || t == TierGold || t == TierBlack
}

// Cycle is the periodization phase a program is currently in.
type Cycle string

const (
	CycleBase      Cycle = "BASE"
	CycleLoad      Cycle = "LOAD"
	CycleIntensify Cycle = "INTENSIFY"
	CycleDeload    Cycle = "DELOAD"
)

// Valid reports whether c is a known cycle.
func (c Cycle) Valid() bool {
	switch c {
	case CycleBase, CycleLoad, CycleIntensify, CycleDeload:
		return true
	}
	return false
}
