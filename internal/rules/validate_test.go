package rules

import (
	"strings"
	"testing"

	"github.com/meltforce/forgeplan/internal/models"
)

func intPtr(v int) *int { return &v }

// validWorkout returns a minimal workout that passes validation, for tests to
// break one piece at a time.
func validWorkout() *models.Workout {
	return &models.Workout{
		Name:      "Engine Day 1",
		Archetype: models.ArchetypeENGIN3,
		Sections: []models.Section{
			{Order: 0, Title: "Prep", Type: models.SectionWarmup},
			{Order: 1, Title: "Every Minute", Type: models.SectionEMOM,
				Emom: &models.EmomTiming{WorkSec: 40, RestSec: 20, Rounds: 10},
				Blocks: []models.Block{
					{Order: 0, ExerciseName: "Row", RepScheme: "12 cal",
						Tiers: []models.TierPrescription{
							{Tier: models.TierSilver, Load: "moderate"},
							{Tier: models.TierGold, Load: "hard"},
						}},
				}},
			{Order: 2, Title: "Down", Type: models.SectionCooldown},
		},
	}
}

func TestValidateWorkoutOK(t *testing.T) {
	if err := ValidateWorkout(validWorkout()); err != nil {
		t.Fatalf("ValidateWorkout(valid) = %v, want nil", err)
	}
}

func TestValidateWorkoutUnknownArchetype(t *testing.T) {
	w := validWorkout()
	w.Archetype = "MEGAPUMP"
	err := ValidateWorkout(w)
	if err == nil {
		t.Fatal("expected error for unknown archetype")
	}
	errs := err.(Errors)
	if errs[0].Field != "archetype" {
		t.Errorf("field = %q, want %q", errs[0].Field, "archetype")
	}
	if errs[0].SectionOrder != -1 {
		t.Errorf("sectionOrder = %d, want -1", errs[0].SectionOrder)
	}
}

func TestValidateWorkoutMissingName(t *testing.T) {
	w := validWorkout()
	w.Name = ""
	if err := ValidateWorkout(w); err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Errorf("ValidateWorkout(no name) = %v, want name violation", err)
	}
}

// TestValidateWorkoutEmomRequired verifies that an EMOM section without its
// timing payload is rejected.
func TestValidateWorkoutEmomRequired(t *testing.T) {
	w := validWorkout()
	w.Sections[1].Emom = nil
	err := ValidateWorkout(w)
	if err == nil {
		t.Fatal("expected error for EMOM without timing")
	}
	if !strings.Contains(err.Error(), "EMOM timing is required") {
		t.Errorf("error = %v, want EMOM timing violation", err)
	}
}

func TestValidateWorkoutEmomFieldBounds(t *testing.T) {
	w := validWorkout()
	w.Sections[1].Emom = &models.EmomTiming{WorkSec: 0, RestSec: -5, Rounds: 0}
	err := ValidateWorkout(w)
	if err == nil {
		t.Fatal("expected error for out-of-range EMOM fields")
	}
	errs := err.(Errors)
	if len(errs) != 3 {
		t.Fatalf("got %d violations, want 3: %v", len(errs), errs)
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{"emom.workSec", "emom.restSec", "emom.rounds"} {
		if !fields[f] {
			t.Errorf("missing violation for %s", f)
		}
	}
}

// TestValidateWorkoutEmomRejectsDuration verifies durationSec is forbidden on
// EMOM sections even when the timing payload is present.
func TestValidateWorkoutEmomRejectsDuration(t *testing.T) {
	w := validWorkout()
	w.Sections[1].DurationSec = intPtr(600)
	err := ValidateWorkout(w)
	if err == nil || !strings.Contains(err.Error(), "not allowed on EMOM") {
		t.Errorf("error = %v, want durationSec violation", err)
	}
}

func TestValidateWorkoutAmrapNeedsDuration(t *testing.T) {
	w := &models.Workout{
		Name:      "Burner",
		Archetype: models.ArchetypeENGIN3,
		Sections: []models.Section{
			{Order: 0, Type: models.SectionAMRAP,
				Blocks: []models.Block{{Order: 0, ExerciseName: "Burpee"}}},
		},
	}
	err := ValidateWorkout(w)
	if err == nil || !strings.Contains(err.Error(), "duration is required") {
		t.Errorf("error = %v, want duration violation", err)
	}

	w.Sections[0].DurationSec = intPtr(720)
	if err := ValidateWorkout(w); err != nil {
		t.Errorf("ValidateWorkout(AMRAP with duration) = %v, want nil", err)
	}
}

// TestValidateWorkoutTimedRest verifies OTHER sections may carry an optional
// duration but plain sections may not.
func TestValidateWorkoutTimedRest(t *testing.T) {
	w := validWorkout()
	w.Sections[1] = models.Section{Order: 1, Title: "Rest", Type: models.SectionOther, DurationSec: intPtr(120)}
	if err := ValidateWorkout(w); err != nil {
		t.Errorf("ValidateWorkout(timed OTHER) = %v, want nil", err)
	}

	w.Sections[0].DurationSec = intPtr(120) // WARMUP takes no timing
	if err := ValidateWorkout(w); err == nil {
		t.Error("expected error for durationSec on WARMUP")
	}
}

func TestValidateWorkoutArchetypeLegality(t *testing.T) {
	tests := []struct {
		archetype models.Archetype
		section   models.SectionType
		ok        bool
	}{
		{models.ArchetypePR1ME, models.SectionWave, true},
		{models.ArchetypePR1ME, models.SectionEMOM, false},
		{models.ArchetypeFORGE, models.SectionEMOM, true},
		{models.ArchetypeENGIN3, models.SectionWave, false},
		{models.ArchetypeCIRCUITX, models.SectionCircuit, true},
		{models.ArchetypeCAPAC1TY, models.SectionCapacity, true},
		{models.ArchetypeFLOWSTATE, models.SectionFlow, true},
		{models.ArchetypeFLOWSTATE, models.SectionFinisher, false},
		// warmup/cooldown are legal everywhere
		{models.ArchetypeFLOWSTATE, models.SectionWarmup, true},
		{models.ArchetypePR1ME, models.SectionCooldown, true},
	}
	for _, tt := range tests {
		if got := SectionAllowed(tt.archetype, tt.section); got != tt.ok {
			t.Errorf("SectionAllowed(%s, %s) = %v, want %v", tt.archetype, tt.section, got, tt.ok)
		}
	}
}

func TestValidateWorkoutSectionOrderGaps(t *testing.T) {
	w := validWorkout()
	w.Sections[2].Order = 5
	err := ValidateWorkout(w)
	if err == nil || !strings.Contains(err.Error(), "contiguous 0-based sequence") {
		t.Errorf("error = %v, want ordering violation", err)
	}
}

func TestValidateWorkoutWarmupPlacement(t *testing.T) {
	w := validWorkout()
	// Swap warmup into the middle
	w.Sections[0].Type = models.SectionOther
	w.Sections[1] = models.Section{Order: 1, Type: models.SectionWarmup}
	err := ValidateWorkout(w)
	if err == nil || !strings.Contains(err.Error(), "WARMUP must be the first section") {
		t.Errorf("error = %v, want placement violation", err)
	}
}

func TestValidateWorkoutCooldownPlacement(t *testing.T) {
	w := validWorkout()
	w.Sections[0].Type = models.SectionCooldown
	w.Sections[2].Type = models.SectionOther
	err := ValidateWorkout(w)
	if err == nil || !strings.Contains(err.Error(), "COOLDOWN must be the last section") {
		t.Errorf("error = %v, want placement violation", err)
	}
}

func TestValidateWorkoutBlockRules(t *testing.T) {
	w := validWorkout()
	blocks := &w.Sections[1].Blocks
	dist := 400.0
	*blocks = append(*blocks, models.Block{Order: 3, ExerciseName: "", Distance: &dist})
	err := ValidateWorkout(w)
	if err == nil {
		t.Fatal("expected block violations")
	}
	msg := err.Error()
	for _, want := range []string{"contiguous 0-based sequence", "exercise name is required", "required when distance is set"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
}

func TestValidateWorkoutDuplicateTier(t *testing.T) {
	w := validWorkout()
	tiers := &w.Sections[1].Blocks[0].Tiers
	*tiers = append(*tiers, models.TierPrescription{Tier: models.TierSilver, Load: "again"})
	err := ValidateWorkout(w)
	if err == nil || !strings.Contains(err.Error(), "duplicate prescription for tier SILVER") {
		t.Errorf("error = %v, want duplicate tier violation", err)
	}
}

// TestValidateWorkoutCollectsAll verifies the validator reports every
// violation instead of stopping at the first.
func TestValidateWorkoutCollectsAll(t *testing.T) {
	w := validWorkout()
	w.Name = ""
	w.Archetype = "NOPE"
	w.Sections[1].Emom = nil
	err := ValidateWorkout(w)
	if err == nil {
		t.Fatal("expected errors")
	}
	if errs := err.(Errors); len(errs) < 3 {
		t.Errorf("got %d violations, want >= 3: %v", len(errs), errs)
	}
}

func validProgram() *models.Program {
	w := validWorkout()
	w.DayIndex = intPtr(0)
	return &models.Program{
		Name:          "Engine Builder",
		Slug:          "engine-builder",
		DurationWeeks: 4,
		CurrentCycle:  models.CycleBase,
		Workouts:      []models.Workout{*w},
	}
}

func TestValidateProgramOK(t *testing.T) {
	if err := ValidateProgram(validProgram()); err != nil {
		t.Fatalf("ValidateProgram(valid) = %v, want nil", err)
	}
}

func TestValidateProgramSlug(t *testing.T) {
	tests := []struct {
		slug string
		ok   bool
	}{
		{"engine-builder", true},
		{"base9", true},
		{"", false},
		{"Engine", false},
		{"-lead", false},
		{"trail-", false},
		{"two--dashes", false},
		{"has space", false},
	}
	for _, tt := range tests {
		p := validProgram()
		p.Slug = tt.slug
		err := ValidateProgram(p)
		if tt.ok && err != nil {
			t.Errorf("slug %q: unexpected error %v", tt.slug, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("slug %q: expected error", tt.slug)
		}
	}
}

func TestValidateProgramDayIndexGrid(t *testing.T) {
	p := validProgram()
	p.DurationWeeks = 1
	p.Workouts[0].DayIndex = intPtr(7) // day 7 needs a second week
	err := ValidateProgram(p)
	if err == nil || !strings.Contains(err.Error(), "does not fit in 1 weeks") {
		t.Errorf("error = %v, want grid violation", err)
	}
}

func TestValidateProgramDuplicateDayIndex(t *testing.T) {
	p := validProgram()
	second := p.Workouts[0]
	second.Name = "Engine Day 2"
	p.Workouts = append(p.Workouts, second) // same DayIndex pointer value 0
	err := ValidateProgram(p)
	if err == nil || !strings.Contains(err.Error(), "used twice") {
		t.Errorf("error = %v, want duplicate day index violation", err)
	}
}

func TestValidateProgramWrapsWorkoutErrors(t *testing.T) {
	p := validProgram()
	p.Workouts[0].Name = ""
	err := ValidateProgram(p)
	if err == nil {
		t.Fatal("expected error")
	}
	errs := err.(Errors)
	found := false
	for _, e := range errs {
		if strings.HasPrefix(e.Field, "workouts[0].") {
			found = true
		}
	}
	if !found {
		t.Errorf("violations %v missing workouts[0]. field prefix", errs)
	}
}

func TestAllowedSections(t *testing.T) {
	got := AllowedSections(models.ArchetypeFLOWSTATE)
	want := []models.SectionType{models.SectionWarmup, models.SectionFlow, models.SectionOther, models.SectionCooldown}
	if len(got) != len(want) {
		t.Fatalf("AllowedSections(FLOWSTATE) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("AllowedSections(FLOWSTATE)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
