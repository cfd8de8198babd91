package rules

import (
	"fmt"
	"strings"

	"github.com/meltforce/forgeplan/internal/models"
)

// StructuralError identifies one rule violation in a template document.
// SectionOrder is -1 for workout- or program-level violations.
type StructuralError struct {
	SectionOrder int                `json:"sectionOrder"`
	SectionType  models.SectionType `json:"sectionType,omitempty"`
	Field        string             `json:"field,omitempty"`
	Message      string             `json:"message"`
}

func (e StructuralError) Error() string {
	if e.SectionOrder < 0 {
		return e.Message
	}
	return fmt.Sprintf("section %d (%s): %s", e.SectionOrder, e.SectionType, e.Message)
}

// Errors is the full list of violations found in one document. A document with
// any violation is rejected whole; nothing is ever coerced.
type Errors []StructuralError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, se := range e {
		msgs[i] = se.Error()
	}
	return strings.Join(msgs, "; ")
}

// ValidateWorkout checks a workout template against the structural model and
// the archetype/section-type rule table. It is pure and idempotent; callers
// re-run it before every schedule expansion. Returns nil or an Errors value.
func ValidateWorkout(w *models.Workout) error {
	var errs Errors

	if !w.Archetype.Valid() {
		errs = append(errs, StructuralError{
			SectionOrder: -1, Field: "archetype",
			Message: fmt.Sprintf("unknown archetype %q", w.Archetype),
		})
	}
	if w.Name == "" {
		errs = append(errs, StructuralError{SectionOrder: -1, Field: "name", Message: "name is required"})
	}

	errs = append(errs, checkSectionOrdering(w.Sections)...)

	for i := range w.Sections {
		errs = append(errs, validateSection(w.Archetype, &w.Sections[i])...)
	}
	errs = append(errs, checkPlacement(w.Sections)...)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// validateSection checks one section's type legality, timing payload, and blocks.
func validateSection(a models.Archetype, s *models.Section) Errors {
	var errs Errors
	at := func(field, msg string) {
		errs = append(errs, StructuralError{SectionOrder: s.Order, SectionType: s.Type, Field: field, Message: msg})
	}

	if !s.Type.Valid() {
		at("type", fmt.Sprintf("unknown section type %q", s.Type))
		return errs
	}
	if a.Valid() && !SectionAllowed(a, s.Type) {
		at("type", fmt.Sprintf("section type %s is not legal for archetype %s", s.Type, a))
	}

	rule := sectionTiming[s.Type]
	switch {
	case rule.requiresEmom:
		if s.Emom == nil {
			at("emom", "EMOM timing is required")
		} else {
			if s.Emom.WorkSec <= 0 {
				at("emom.workSec", "must be > 0")
			}
			if s.Emom.RestSec < 0 {
				at("emom.restSec", "must be >= 0")
			}
			if s.Emom.Rounds <= 0 {
				at("emom.rounds", "must be > 0")
			}
		}
		if s.DurationSec != nil {
			at("durationSec", "not allowed on EMOM sections")
		}
	case rule.requiresDuration:
		if s.DurationSec == nil {
			at("durationSec", "duration is required")
		} else if *s.DurationSec <= 0 {
			at("durationSec", "must be > 0")
		}
		if s.Emom != nil {
			at("emom", fmt.Sprintf("not allowed on %s sections", s.Type))
		}
	default:
		if s.Emom != nil {
			at("emom", fmt.Sprintf("not allowed on %s sections", s.Type))
		}
		if s.DurationSec != nil && !rule.permitsDuration {
			at("durationSec", fmt.Sprintf("not allowed on %s sections", s.Type))
		}
		if s.DurationSec != nil && rule.permitsDuration && *s.DurationSec <= 0 {
			at("durationSec", "must be > 0")
		}
	}

	errs = append(errs, validateBlocks(s)...)
	return errs
}

func validateBlocks(s *models.Section) Errors {
	var errs Errors
	at := func(field, msg string) {
		errs = append(errs, StructuralError{SectionOrder: s.Order, SectionType: s.Type, Field: field, Message: msg})
	}

	if !contiguousOrders(len(s.Blocks), func(i int) int { return s.Blocks[i].Order }) {
		at("blocks", "block order values must be a contiguous 0-based sequence")
	}

	for bi := range s.Blocks {
		b := &s.Blocks[bi]
		if b.ExerciseName == "" {
			at(fmt.Sprintf("blocks[%d].exerciseName", bi), "exercise name is required")
		}
		if b.Distance != nil && b.DistanceUnit == "" {
			at(fmt.Sprintf("blocks[%d].distanceUnit", bi), "required when distance is set")
		}

		seen := map[models.Tier]bool{}
		for _, tp := range b.Tiers {
			if !tp.Tier.Valid() {
				at(fmt.Sprintf("blocks[%d].tiers", bi), fmt.Sprintf("unknown tier %q", tp.Tier))
				continue
			}
			if seen[tp.Tier] {
				at(fmt.Sprintf("blocks[%d].tiers", bi), fmt.Sprintf("duplicate prescription for tier %s", tp.Tier))
			}
			seen[tp.Tier] = true
		}
	}
	return errs
}

// checkSectionOrdering verifies section order values are exactly 0..n-1.
func checkSectionOrdering(sections []models.Section) Errors {
	if contiguousOrders(len(sections), func(i int) int { return sections[i].Order }) {
		return nil
	}
	return Errors{{
		SectionOrder: -1, Field: "sections",
		Message: "section order values must be a contiguous 0-based sequence",
	}}
}

// checkPlacement enforces the order classes: WARMUP first if present,
// COOLDOWN last if present. Body order is unconstrained.
func checkPlacement(sections []models.Section) Errors {
	var errs Errors
	n := len(sections)
	for i := range sections {
		s := &sections[i]
		if s.Type == models.SectionWarmup && s.Order != 0 {
			errs = append(errs, StructuralError{
				SectionOrder: s.Order, SectionType: s.Type, Field: "order",
				Message: "WARMUP must be the first section",
			})
		}
		if s.Type == models.SectionCooldown && s.Order != n-1 {
			errs = append(errs, StructuralError{
				SectionOrder: s.Order, SectionType: s.Type, Field: "order",
				Message: "COOLDOWN must be the last section",
			})
		}
	}
	return errs
}

// contiguousOrders reports whether the n order values form a 0-based
// permutation with no gaps or duplicates.
func contiguousOrders(n int, orderAt func(int) int) bool {
	seen := make([]bool, n)
	for i := 0; i < n; i++ {
		o := orderAt(i)
		if o < 0 || o >= n || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}

// ValidateProgram validates the program shell and every workout it contains.
// Day indexes must be unique and fit inside the program's week grid.
func ValidateProgram(p *models.Program) error {
	var errs Errors
	at := func(field, msg string) {
		errs = append(errs, StructuralError{SectionOrder: -1, Field: field, Message: msg})
	}

	if p.Name == "" {
		at("name", "name is required")
	}
	if !validSlug(p.Slug) {
		at("slug", fmt.Sprintf("slug %q must be non-empty, lowercase, and URL-safe", p.Slug))
	}
	if p.DurationWeeks <= 0 {
		at("durationWeeks", "must be > 0")
	}
	if !p.CurrentCycle.Valid() {
		at("currentCycle", fmt.Sprintf("unknown cycle %q", p.CurrentCycle))
	}
	if max := p.MaxDayIndex(); max >= 0 && p.DurationWeeks*7 < max+1 {
		at("durationWeeks", fmt.Sprintf("day index %d does not fit in %d weeks", max, p.DurationWeeks))
	}

	seen := map[int]bool{}
	for i := range p.Workouts {
		w := &p.Workouts[i]
		if w.DayIndex != nil {
			if *w.DayIndex < 0 {
				at(fmt.Sprintf("workouts[%d].dayIndex", i), "must be >= 0")
			} else if seen[*w.DayIndex] {
				at(fmt.Sprintf("workouts[%d].dayIndex", i), fmt.Sprintf("day index %d used twice", *w.DayIndex))
			}
			if *w.DayIndex >= 0 {
				seen[*w.DayIndex] = true
			}
		}
		if err := ValidateWorkout(w); err != nil {
			var werrs Errors
			if ok := asErrors(err, &werrs); ok {
				for _, we := range werrs {
					we.Field = fmt.Sprintf("workouts[%d].%s", i, we.Field)
					errs = append(errs, we)
				}
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func asErrors(err error, target *Errors) bool {
	e, ok := err.(Errors)
	if ok {
		*target = e
	}
	return ok
}

// validSlug accepts lowercase letters, digits, and single hyphen separators.
func validSlug(s string) bool {
	if s == "" || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return !strings.Contains(s, "--")
}
