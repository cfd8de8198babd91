// Package schedule turns program templates into date-anchored calendar entries
// and keeps every day's order sequence contiguous under mutation.
package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/forgeplan/internal/models"
	"github.com/meltforce/forgeplan/internal/rules"
	"github.com/meltforce/forgeplan/internal/storage"
)

// Store abstracts the storage layer for the scheduling service, so tests can
// run against a fake while production uses *storage.DB.
type Store interface {
	GetProgram(ctx context.Context, id uuid.UUID) (*models.Program, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	CreateScheduled(ctx context.Context, e *models.ScheduledWorkout) error
	CreateScheduledBatch(ctx context.Context, entries []models.ScheduledWorkout) error
	GetScheduled(ctx context.Context, id uuid.UUID) (*models.ScheduledWorkout, error)
	QuerySchedule(ctx context.Context, userID int, start, end time.Time) ([]models.ScheduledWorkout, error)
	MoveScheduled(ctx context.Context, id uuid.UUID, newAt time.Time, newOrder int) error
	ReorderDay(ctx context.Context, userID int, day time.Time, orderedIDs []uuid.UUID) error
	DeleteScheduled(ctx context.Context, id uuid.UUID) error
	SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error
	ProgressCounts(ctx context.Context, userID int, start, end time.Time) (total, completed int, err error)
}

// Compile-time check: *storage.DB satisfies Store.
var _ Store = (*storage.DB)(nil)

// Service implements schedule expansion, mutation, and progress tracking.
type Service struct {
	store Store
	log   *slog.Logger
}

// New creates a scheduling service.
func New(store Store, log *slog.Logger) *Service {
	return &Service{store: store, log: log}
}

// endOfDay is the order sentinel meaning "append at the end of the target
// day"; storage clamps it to the day's current length.
const endOfDay = 1 << 30

// ExpandProgram projects a program onto the user's calendar starting at start.
// The template is re-validated first; a template that went bad since ingestion
// is rejected rather than expanded. Backfilling (start in the past) is legal.
func (s *Service) ExpandProgram(ctx context.Context, userID int, programID uuid.UUID, start time.Time) ([]models.ScheduledWorkout, error) {
	p, err := s.store.GetProgram(ctx, programID)
	if err != nil {
		return nil, err
	}
	if err := rules.ValidateProgram(p); err != nil {
		return nil, err
	}

	entries := PlanProgram(p, userID, start)
	if len(entries) == 0 {
		return entries, nil
	}
	if err := s.store.CreateScheduledBatch(ctx, entries); err != nil {
		return nil, err
	}
	s.log.Info("program expanded",
		"program", p.Slug, "user", userID,
		"entries", len(entries), "start", start.Format(time.RFC3339))
	return entries, nil
}

// ScheduleWorkout creates a single entry for one workout template. No
// day-index math: the entry takes the next order slot on its day.
func (s *Service) ScheduleWorkout(ctx context.Context, userID int, workoutID uuid.UUID, at time.Time, durationMin *int) (*models.ScheduledWorkout, error) {
	if durationMin != nil && *durationMin <= 0 {
		return nil, invalid("duration", "must be > 0 minutes")
	}
	w, err := s.store.GetWorkout(ctx, workoutID)
	if err != nil {
		return nil, err
	}

	entry := &models.ScheduledWorkout{
		ID:          uuid.New(),
		UserID:      userID,
		WorkoutID:   &w.ID,
		ScheduledAt: at,
		DurationMin: durationMin,
	}
	if err := s.store.CreateScheduled(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Move reschedules an entry to a new timestamp and/or order slot. At least one
// of newAt/newOrder must be given. Omitting the order on a cross-day move
// appends at the end of the target day; on a same-day move it keeps the slot.
func (s *Service) Move(ctx context.Context, userID int, id uuid.UUID, newAt *time.Time, newOrder *int) (*models.ScheduledWorkout, error) {
	if newAt == nil && newOrder == nil {
		return nil, invalid("scheduledAt", "nothing to move: provide scheduledAt and/or order")
	}
	if newOrder != nil && *newOrder < 0 {
		return nil, invalid("order", "must be >= 0")
	}

	entry, err := s.ownedEntry(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if entry.IsProgramRef() {
		return nil, invalid("id", "program reference entries cannot be moved")
	}

	at := entry.ScheduledAt
	if newAt != nil {
		at = *newAt
	}

	var ord int
	switch {
	case newOrder != nil:
		ord = *newOrder
	case storage.DayStart(at).Equal(storage.DayStart(entry.ScheduledAt)):
		ord = *entry.Order
	default:
		ord = endOfDay
	}

	if err := s.store.MoveScheduled(ctx, id, at, ord); err != nil {
		return nil, err
	}
	return s.store.GetScheduled(ctx, id)
}

// Reorder replaces one day's order sequence with the given id order. The
// snapshot must match the day's current entry set exactly; a stale snapshot
// surfaces as a conflict for the client to refetch and retry.
func (s *Service) Reorder(ctx context.Context, userID int, day time.Time, orderedIDs []uuid.UUID) error {
	seen := make(map[uuid.UUID]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return invalid("orderedIds", "duplicate id "+id.String())
		}
		seen[id] = true
	}
	return s.store.ReorderDay(ctx, userID, day, orderedIDs)
}

// Delete removes an entry; the rest of its day is renumbered to stay contiguous.
func (s *Service) Delete(ctx context.Context, userID int, id uuid.UUID) error {
	if _, err := s.ownedEntry(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteScheduled(ctx, id)
}

// Complete marks an entry completed. Completion is one-way at this layer:
// there is no toggle, only the distinct explicit Uncomplete below.
func (s *Service) Complete(ctx context.Context, userID int, id uuid.UUID) error {
	return s.setCompleted(ctx, userID, id, true)
}

// Uncomplete explicitly clears a completion. Kept separate from Complete so a
// recorded session is never lost to a default toggle.
func (s *Service) Uncomplete(ctx context.Context, userID int, id uuid.UUID) error {
	return s.setCompleted(ctx, userID, id, false)
}

func (s *Service) setCompleted(ctx context.Context, userID int, id uuid.UUID, completed bool) error {
	entry, err := s.ownedEntry(ctx, userID, id)
	if err != nil {
		return err
	}
	if entry.IsProgramRef() {
		return invalid("id", "program reference entries cannot be completed")
	}
	return s.store.SetCompleted(ctx, id, completed)
}

// Schedule returns the user's entries for [start, end] (end date inclusive).
func (s *Service) Schedule(ctx context.Context, userID int, start, end time.Time) ([]models.ScheduledWorkout, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	return s.store.QuerySchedule(ctx, userID, start, end)
}

// Progress aggregates completion over [start, end]. Pure function of the
// stored set; repeated calls with unchanged data return identical results.
func (s *Service) Progress(ctx context.Context, userID int, start, end time.Time) (*models.Progress, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	total, completed, err := s.store.ProgressCounts(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	return &models.Progress{
		Completed:  completed,
		Total:      total,
		Percentage: Percentage(completed, total),
	}, nil
}

// ownedEntry fetches an entry and enforces ownership: absent id is NotFound,
// wrong owner is an authorization error.
func (s *Service) ownedEntry(ctx context.Context, userID int, id uuid.UUID) (*models.ScheduledWorkout, error) {
	entry, err := s.store.GetScheduled(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, ErrOwnership
	}
	return entry, nil
}

func checkRange(start, end time.Time) error {
	if end.Before(start) {
		return invalid("endDate", "must not be before startDate")
	}
	return nil
}
