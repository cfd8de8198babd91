package schedule

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/forgeplan/internal/models"
)

// PlanProgram lays a program's workouts onto consecutive calendar days
// starting at start (which carries the chosen time-of-day). Workouts with a
// day index come first, ascending; unindexed workouts follow in template
// order. The i-th workout lands on start + i days.
//
// The returned entries have no order slots yet; those are assigned against
// the live per-day sequences at insert time. The first entry is the program
// display-grouping row anchored at start. An empty program plans to an empty
// list, not an error.
func PlanProgram(p *models.Program, userID int, start time.Time) []models.ScheduledWorkout {
	if len(p.Workouts) == 0 {
		return []models.ScheduledWorkout{}
	}

	ordered := make([]*models.Workout, len(p.Workouts))
	for i := range p.Workouts {
		ordered[i] = &p.Workouts[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := ordered[i].DayIndex, ordered[j].DayIndex
		switch {
		case di != nil && dj != nil:
			return *di < *dj
		case di != nil:
			return true
		default:
			return false
		}
	})

	programID := p.ID
	entries := make([]models.ScheduledWorkout, 0, len(ordered)+1)
	entries = append(entries, models.ScheduledWorkout{
		ID:          uuid.New(),
		UserID:      userID,
		ProgramID:   &programID,
		ScheduledAt: start,
	})

	for i, w := range ordered {
		workoutID := w.ID
		entries = append(entries, models.ScheduledWorkout{
			ID:          uuid.New(),
			UserID:      userID,
			WorkoutID:   &workoutID,
			ScheduledAt: start.AddDate(0, 0, i),
		})
	}
	return entries
}
