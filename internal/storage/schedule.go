package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/forgeplan/internal/models"
)

// ErrProgramRef is returned when an order-affecting mutation targets a program
// display-grouping row, which carries no per-day order.
var ErrProgramRef = errors.New("program reference entries carry no order")

// DayStart truncates a timestamp to midnight of its own (user-local) day.
// All per-day ordering sequences are keyed by this value.
func DayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// schedEntry is the minimal row shape used while renumbering a day.
type schedEntry struct {
	ID  uuid.UUID
	Ord int
}

// lockDay row-locks every workout entry on one (user, day) sequence and
// returns them in order. All order mutations for a day go through this lock,
// so two concurrent writers on the same day serialize; the loser sees the
// winner's committed state.
func lockDay(ctx context.Context, tx pgx.Tx, userID int, day time.Time) ([]schedEntry, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, ord FROM scheduled_workouts
		 WHERE user_id = $1 AND scheduled_at >= $2 AND scheduled_at < $3
		   AND workout_id IS NOT NULL
		 ORDER BY ord ASC
		 FOR UPDATE`,
		userID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("locking day %s: %w", day.Format("2006-01-02"), err)
	}
	defer rows.Close()

	var entries []schedEntry
	for rows.Next() {
		var e schedEntry
		if err := rows.Scan(&e.ID, &e.Ord); err != nil {
			return nil, fmt.Errorf("scanning day entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CreateScheduled inserts a single entry, assigning the next order slot on its
// day inside one transaction. Program grouping rows take no order slot.
func (db *DB) CreateScheduled(ctx context.Context, e *models.ScheduledWorkout) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertScheduled(ctx, tx, e, nil); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateScheduledBatch inserts an expansion's entries in one transaction.
// Per-day order counters are carried across entries so multiple workouts
// landing on the same day get consecutive slots.
func (db *DB) CreateScheduledBatch(ctx context.Context, entries []models.ScheduledWorkout) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	nextOrd := make(map[time.Time]int)
	for i := range entries {
		if err := insertScheduled(ctx, tx, &entries[i], nextOrd); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// insertScheduled assigns the entry's order slot (workout entries only) and
// inserts it. nextOrd, when non-nil, caches per-day counters across a batch.
func insertScheduled(ctx context.Context, tx pgx.Tx, e *models.ScheduledWorkout, nextOrd map[time.Time]int) error {
	if !e.IsProgramRef() {
		day := DayStart(e.ScheduledAt)
		ord, cached := 0, false
		if nextOrd != nil {
			ord, cached = nextOrd[day]
		}
		if !cached {
			existing, err := lockDay(ctx, tx, e.UserID, day)
			if err != nil {
				return err
			}
			ord = len(existing)
		}
		if nextOrd != nil {
			nextOrd[day] = ord + 1
		}
		e.Order = &ord
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO scheduled_workouts
		   (id, user_id, workout_id, program_id, scheduled_at, ord, duration_min, notes, is_completed)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		e.ID, e.UserID, e.WorkoutID, e.ProgramID, e.ScheduledAt, e.Order,
		e.DurationMin, e.Notes, e.IsCompleted)
	if err != nil {
		return fmt.Errorf("inserting scheduled workout: %w", mapRowErr(err))
	}
	return nil
}

// GetScheduled retrieves one entry by ID regardless of owner; callers decide
// whether the requesting user may touch it.
func (db *DB) GetScheduled(ctx context.Context, id uuid.UUID) (*models.ScheduledWorkout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, workout_id, program_id, scheduled_at, ord, duration_min, notes, is_completed
		 FROM scheduled_workouts WHERE id = $1`, id)

	var s models.ScheduledWorkout
	err := row.Scan(&s.ID, &s.UserID, &s.WorkoutID, &s.ProgramID, &s.ScheduledAt,
		&s.Order, &s.DurationMin, &s.Notes, &s.IsCompleted)
	if err != nil {
		return nil, fmt.Errorf("querying scheduled workout: %w", mapRowErr(err))
	}
	return &s, nil
}

// QuerySchedule returns a user's entries in the inclusive [start, end]
// window, joined with their workout or program template summaries, ordered
// by day then order slot.
func (db *DB) QuerySchedule(ctx context.Context, userID int, start, end time.Time) ([]models.ScheduledWorkout, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT s.id, s.user_id, s.workout_id, s.program_id, s.scheduled_at, s.ord,
		        s.duration_min, s.notes, s.is_completed,
		        w.name, w.display_code, w.archetype,
		        p.name, p.slug
		 FROM scheduled_workouts s
		 LEFT JOIN workouts w ON w.id = s.workout_id
		 LEFT JOIN programs p ON p.id = s.program_id
		 WHERE s.user_id = $1 AND s.scheduled_at >= $2 AND s.scheduled_at <= $3
		 ORDER BY s.scheduled_at::date ASC, s.ord ASC NULLS FIRST`,
		userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying schedule: %w", err)
	}
	defer rows.Close()

	var result []models.ScheduledWorkout
	for rows.Next() {
		var s models.ScheduledWorkout
		var wName, wCode, pName, pSlug *string
		var wArch *models.Archetype
		if err := rows.Scan(&s.ID, &s.UserID, &s.WorkoutID, &s.ProgramID, &s.ScheduledAt,
			&s.Order, &s.DurationMin, &s.Notes, &s.IsCompleted,
			&wName, &wCode, &wArch, &pName, &pSlug); err != nil {
			return nil, fmt.Errorf("scanning schedule entry: %w", err)
		}
		if s.WorkoutID != nil && wName != nil {
			s.Workout = &models.WorkoutSummary{ID: *s.WorkoutID, Name: *wName, DisplayCode: *wCode, Archetype: *wArch}
		}
		if s.ProgramID != nil && pName != nil {
			s.Program = &models.ProgramSummary{ID: *s.ProgramID, Name: *pName, Slug: *pSlug}
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// MoveScheduled moves one workout entry to a new timestamp and order slot.
// Both affected day sequences stay contiguous 0..n-1. The entry is read
// without a row lock first: every order mutation takes its day locks before
// any row lock, in chronological order, so two concurrent moves on the same
// day serialize at lockDay instead of deadlocking on each other's rows.
func (db *DB) MoveScheduled(ctx context.Context, id uuid.UUID, newAt time.Time, newOrder int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int
	var workoutID *uuid.UUID
	var oldAt time.Time
	err = tx.QueryRow(ctx,
		`SELECT user_id, workout_id, scheduled_at
		 FROM scheduled_workouts WHERE id = $1`, id).
		Scan(&userID, &workoutID, &oldAt)
	if err != nil {
		return fmt.Errorf("reading scheduled workout: %w", mapRowErr(err))
	}
	if workoutID == nil {
		return ErrProgramRef
	}

	oldDay, newDay := DayStart(oldAt), DayStart(newAt)

	source, target, err := lockDayPair(ctx, tx, userID, oldDay, newDay)
	if err != nil {
		return err
	}
	// The entry's row lock is held via its day sequence. If it left the day
	// between the read and the lock, a concurrent mutation won; retry.
	if findOrd(source, id) < 0 {
		return fmt.Errorf("entry %s changed days concurrently: %w", id, ErrConflict)
	}

	if oldDay.Equal(newDay) {
		if err := renumberWithin(ctx, tx, source, id, newOrder, newAt); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	// Close the gap on the source day, then land on the target day.
	if err := applyOrds(ctx, tx, removeAndClose(source, id), source); err != nil {
		return err
	}
	if err := renumberWithin(ctx, tx, target, id, newOrder, newAt); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// lockDayPair locks both day sequences in chronological order and returns
// them as (source, target). Equal days are locked once.
func lockDayPair(ctx context.Context, tx pgx.Tx, userID int, source, target time.Time) ([]schedEntry, []schedEntry, error) {
	if source.Equal(target) {
		entries, err := lockDay(ctx, tx, userID, source)
		return entries, entries, err
	}
	first, second := source, target
	if second.Before(first) {
		first, second = second, first
	}
	firstEntries, err := lockDay(ctx, tx, userID, first)
	if err != nil {
		return nil, nil, err
	}
	secondEntries, err := lockDay(ctx, tx, userID, second)
	if err != nil {
		return nil, nil, err
	}
	if first.Equal(source) {
		return firstEntries, secondEntries, nil
	}
	return secondEntries, firstEntries, nil
}

// findOrd returns the order slot of id within a locked day, or -1 when the
// entry is not on that day.
func findOrd(entries []schedEntry, id uuid.UUID) int {
	for _, e := range entries {
		if e.ID == id {
			return e.Ord
		}
	}
	return -1
}

// renumberWithin reorders entries of one already-locked day so that the moving
// entry lands at newOrder and every slot stays contiguous. The moving entry
// need not be on the day yet; a cross-day move lands it here.
func renumberWithin(ctx context.Context, tx pgx.Tx, entries []schedEntry, moving uuid.UUID, newOrder int, newAt time.Time) error {
	for ord, eid := range spliceOrder(entries, moving, newOrder) {
		if eid == moving {
			if _, err := tx.Exec(ctx,
				`UPDATE scheduled_workouts SET ord = $2, scheduled_at = $3 WHERE id = $1`,
				eid, ord, newAt); err != nil {
				return fmt.Errorf("renumbering entry: %w", err)
			}
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE scheduled_workouts SET ord = $2 WHERE id = $1`, eid, ord); err != nil {
			return fmt.Errorf("renumbering entry: %w", err)
		}
	}
	return nil
}

// spliceOrder returns the day's id sequence with moving placed at newOrder,
// clamped to the sequence bounds, and every other entry shifted to keep the
// slots contiguous.
func spliceOrder(entries []schedEntry, moving uuid.UUID, newOrder int) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		if e.ID != moving {
			ids = append(ids, e.ID)
		}
	}
	newOrder = clampOrder(newOrder, len(ids))
	out := make([]uuid.UUID, 0, len(ids)+1)
	out = append(out, ids[:newOrder]...)
	out = append(out, moving)
	out = append(out, ids[newOrder:]...)
	return out
}

// removeAndClose returns the day's sequence without the removed entry, with
// the remaining ords renumbered contiguously from 0.
func removeAndClose(entries []schedEntry, removed uuid.UUID) []schedEntry {
	out := make([]schedEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID == removed {
			continue
		}
		e.Ord = len(out)
		out = append(out, e)
	}
	return out
}

// applyOrds writes renumbered slots back, skipping entries whose slot did
// not change.
func applyOrds(ctx context.Context, tx pgx.Tx, after, before []schedEntry) error {
	orig := make(map[uuid.UUID]int, len(before))
	for _, e := range before {
		orig[e.ID] = e.Ord
	}
	for _, e := range after {
		if orig[e.ID] == e.Ord {
			continue
		}
		if _, err := tx.Exec(ctx,
			`UPDATE scheduled_workouts SET ord = $2 WHERE id = $1`, e.ID, e.Ord); err != nil {
			return fmt.Errorf("renumbering entry: %w", err)
		}
	}
	return nil
}

func clampOrder(ord, max int) int {
	if ord < 0 {
		return 0
	}
	if ord > max {
		return max
	}
	return ord
}

// ReorderDay replaces one day's order sequence in a single call. orderedIDs
// must be exactly the day's current workout entries; a stale snapshot gets
// ErrConflict and the day is left untouched for the client to refetch.
func (db *DB) ReorderDay(ctx context.Context, userID int, day time.Time, orderedIDs []uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	entries, err := lockDay(ctx, tx, userID, DayStart(day))
	if err != nil {
		return err
	}
	if err := matchDaySet(entries, orderedIDs); err != nil {
		return err
	}

	for ord, id := range orderedIDs {
		if _, err := tx.Exec(ctx,
			`UPDATE scheduled_workouts SET ord = $2 WHERE id = $1`, id, ord); err != nil {
			return fmt.Errorf("reordering entry: %w", err)
		}
	}
	return tx.Commit(ctx)
}

// matchDaySet checks that orderedIDs is exactly the day's current workout
// entry set. A mismatch means the caller worked from a stale snapshot.
func matchDaySet(entries []schedEntry, orderedIDs []uuid.UUID) error {
	if len(entries) != len(orderedIDs) {
		return fmt.Errorf("reorder snapshot has %d ids, day has %d entries: %w",
			len(orderedIDs), len(entries), ErrConflict)
	}
	current := make(map[uuid.UUID]bool, len(entries))
	for _, e := range entries {
		current[e.ID] = true
	}
	for _, id := range orderedIDs {
		if !current[id] {
			return fmt.Errorf("reorder snapshot contains unknown entry %s: %w", id, ErrConflict)
		}
		delete(current, id)
	}
	return nil
}

// DeleteScheduled removes an entry and renumbers the remainder of its day.
// Like MoveScheduled, the day lock comes before any row lock.
func (db *DB) DeleteScheduled(ctx context.Context, id uuid.UUID) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID int
	var workoutID *uuid.UUID
	var at time.Time
	err = tx.QueryRow(ctx,
		`SELECT user_id, workout_id, scheduled_at
		 FROM scheduled_workouts WHERE id = $1`, id).
		Scan(&userID, &workoutID, &at)
	if err != nil {
		return fmt.Errorf("reading scheduled workout: %w", mapRowErr(err))
	}

	if workoutID == nil {
		// Program grouping rows carry no order slot; nothing to renumber.
		if _, err := tx.Exec(ctx, `DELETE FROM scheduled_workouts WHERE id = $1`, id); err != nil {
			return fmt.Errorf("deleting program reference: %w", err)
		}
		return tx.Commit(ctx)
	}

	entries, err := lockDay(ctx, tx, userID, DayStart(at))
	if err != nil {
		return err
	}
	if findOrd(entries, id) < 0 {
		return fmt.Errorf("entry %s changed days concurrently: %w", id, ErrConflict)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM scheduled_workouts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting scheduled workout: %w", err)
	}
	if err := applyOrds(ctx, tx, removeAndClose(entries, id), entries); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SetCompleted flips the completion flag. The one-way semantics (complete vs.
// explicit uncomplete) live in the schedule service; storage just writes.
func (db *DB) SetCompleted(ctx context.Context, id uuid.UUID, completed bool) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE scheduled_workouts SET is_completed = $2
		 WHERE id = $1 AND workout_id IS NOT NULL`, id, completed)
	if err != nil {
		return fmt.Errorf("updating completion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ProgressCounts returns total and completed workout entries for a user in
// the inclusive [start, end] window. Program grouping rows are not trackable
// and never counted.
func (db *DB) ProgressCounts(ctx context.Context, userID int, start, end time.Time) (total, completed int, err error) {
	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE workout_id IS NOT NULL),
		        COUNT(*) FILTER (WHERE workout_id IS NOT NULL AND is_completed)
		 FROM scheduled_workouts
		 WHERE user_id = $1 AND scheduled_at >= $2 AND scheduled_at <= $3`,
		userID, start, end).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("counting progress: %w", err)
	}
	return total, completed, nil
}
