package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestArchetypeValid(t *testing.T) {
	for _, a := range Archetypes {
		if !a.Valid() {
			t.Errorf("Archetype(%q).Valid() = false, want true", a)
		}
	}
	if Archetype("PRIME").Valid() {
		t.Error(`Archetype("PRIME").Valid() = true, want false (spelled PR1ME)`)
	}
	if Archetype("").Valid() {
		t.Error("empty archetype reported valid")
	}
}

func TestTierValid(t *testing.T) {
	for _, tier := range []Tier{TierSilver, TierGold, TierBlack} {
		if !tier.Valid() {
			t.Errorf("Tier(%q).Valid() = false, want true", tier)
		}
	}
	if Tier("BRONZE").Valid() {
		t.Error(`Tier("BRONZE").Valid() = true, want false`)
	}
}

// TestSectionTimingJSON verifies timing payloads only appear in JSON when set:
// an EMOM section carries emom and no durationSec, a timed section the reverse.
func TestSectionTimingJSON(t *testing.T) {
	emom := Section{
		Order: 0, Title: "Intervals", Type: SectionEMOM,
		Emom: &EmomTiming{WorkSec: 45, RestSec: 15, Rounds: 8},
	}
	data, err := json.Marshal(emom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"emom"`) {
		t.Errorf("EMOM section JSON %s missing emom payload", data)
	}
	if strings.Contains(string(data), "durationSec") {
		t.Errorf("EMOM section JSON %s carries durationSec", data)
	}

	dur := 720
	amrap := Section{Order: 1, Type: SectionAMRAP, DurationSec: &dur}
	data, err = json.Marshal(amrap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"durationSec":720`) {
		t.Errorf("AMRAP section JSON %s missing durationSec", data)
	}
	if strings.Contains(string(data), "emom") {
		t.Errorf("AMRAP section JSON %s carries emom payload", data)
	}
}

func TestTierFor(t *testing.T) {
	reps := 8
	b := Block{
		ExerciseName: "Back Squat",
		Tiers: []TierPrescription{
			{Tier: TierSilver, Load: "60%", TargetReps: &reps},
			{Tier: TierBlack, Load: "80%"},
		},
	}
	if p := b.TierFor(TierSilver); p == nil || p.Load != "60%" {
		t.Errorf("TierFor(SILVER) = %+v, want load 60%%", p)
	}
	if p := b.TierFor(TierGold); p != nil {
		t.Errorf("TierFor(GOLD) = %+v, want nil", p)
	}
}

func TestMaxDayIndex(t *testing.T) {
	p := Program{}
	if got := p.MaxDayIndex(); got != -1 {
		t.Errorf("MaxDayIndex(empty) = %d, want -1", got)
	}

	d0, d5 := 0, 5
	p.Workouts = []Workout{{DayIndex: &d5}, {DayIndex: &d0}, {}}
	if got := p.MaxDayIndex(); got != 5 {
		t.Errorf("MaxDayIndex = %d, want 5", got)
	}
}
