// Package rules holds the declarative archetype and section-type rule table
// and the structural validator run on every template document before it is
// stored or expanded onto a calendar.
package rules

import "github.com/meltforce/forgeplan/internal/models"

// timingRule describes which timing payloads a section type requires or permits.
// Anything not required and not permitted is forbidden.
type timingRule struct {
	requiresEmom     bool
	requiresDuration bool
	permitsDuration  bool
}

// sectionTiming maps every section type to its timing rule. Types absent from
// the map take the zero rule: no timing payload allowed.
var sectionTiming = map[models.SectionType]timingRule{
	models.SectionEMOM:     {requiresEmom: true},
	models.SectionAMRAP:    {requiresDuration: true, permitsDuration: true},
	models.SectionCapacity: {requiresDuration: true, permitsDuration: true},
	// OTHER doubles as a timed rest block, so a duration is allowed but not required.
	models.SectionOther: {permitsDuration: true},
}

// bodySections lists the section types that may appear between warmup and
// cooldown for each archetype. WARMUP and COOLDOWN are legal everywhere and
// are therefore not repeated per archetype.
var bodySections = map[models.Archetype][]models.SectionType{
	models.ArchetypePR1ME:     {models.SectionWave, models.SectionSuperset, models.SectionFinisher, models.SectionOther},
	models.ArchetypeFORGE:     {models.SectionWave, models.SectionSuperset, models.SectionEMOM, models.SectionFinisher, models.SectionOther},
	models.ArchetypeENGIN3:    {models.SectionEMOM, models.SectionForTime, models.SectionAMRAP, models.SectionFinisher, models.SectionOther},
	models.ArchetypeCIRCUITX:  {models.SectionCircuit, models.SectionEMOM, models.SectionAMRAP, models.SectionFinisher, models.SectionOther},
	models.ArchetypeCAPAC1TY:  {models.SectionCapacity, models.SectionAMRAP, models.SectionForTime, models.SectionOther},
	models.ArchetypeFLOWSTATE: {models.SectionFlow, models.SectionOther},
}

// SectionAllowed reports whether a section type may appear in a workout of the
// given archetype, in any position.
func SectionAllowed(a models.Archetype, t models.SectionType) bool {
	if t == models.SectionWarmup || t == models.SectionCooldown {
		return true
	}
	for _, allowed := range bodySections[a] {
		if t == allowed {
			return true
		}
	}
	return false
}

// AllowedSections returns every section type legal for the archetype,
// warmup and cooldown included.
func AllowedSections(a models.Archetype) []models.SectionType {
	out := []models.SectionType{models.SectionWarmup}
	out = append(out, bodySections[a]...)
	return append(out, models.SectionCooldown)
}
