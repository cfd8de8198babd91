package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/forgeplan/internal/models"
)

// InsertProgram inserts a program and all of its workouts in one transaction.
// Callers validate the document first; storage never re-checks structure.
func (db *DB) InsertProgram(ctx context.Context, p *models.Program) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO programs (id, name, slug, level, goal, duration_weeks, current_cycle, is_public)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Name, p.Slug, p.Level, p.Goal, p.DurationWeeks, p.CurrentCycle, p.IsPublic)
	if err != nil {
		return fmt.Errorf("inserting program: %w", mapRowErr(err))
	}

	for i := range p.Workouts {
		w := &p.Workouts[i]
		if err := insertWorkout(ctx, tx, w, &p.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// InsertWorkout inserts a standalone workout template.
func (db *DB) InsertWorkout(ctx context.Context, w *models.Workout) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertWorkout(ctx, tx, w, nil); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertWorkout(ctx context.Context, tx pgx.Tx, w *models.Workout, programID *uuid.UUID) error {
	doc, err := json.Marshal(w.Sections)
	if err != nil {
		return fmt.Errorf("marshaling sections: %w", err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO workouts (id, program_id, name, display_code, archetype, day_index, doc)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		w.ID, programID, w.Name, w.DisplayCode, w.Archetype, w.DayIndex, doc)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", mapRowErr(err))
	}
	return nil
}

// GetWorkout retrieves a workout template by ID, sections included.
func (db *DB) GetWorkout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, program_id, name, display_code, archetype, day_index, doc
		 FROM workouts WHERE id = $1`, id)
	return scanWorkout(row)
}

// GetProgram retrieves a program with its workouts ordered by day index
// (indexed workouts first, then unindexed in insertion order).
func (db *DB) GetProgram(ctx context.Context, id uuid.UUID) (*models.Program, error) {
	return db.getProgram(ctx, `WHERE id = $1`, id)
}

// GetProgramBySlug retrieves a program by its URL-safe slug.
func (db *DB) GetProgramBySlug(ctx context.Context, slug string) (*models.Program, error) {
	return db.getProgram(ctx, `WHERE slug = $1`, slug)
}

func (db *DB) getProgram(ctx context.Context, where string, arg any) (*models.Program, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, slug, level, goal, duration_weeks, current_cycle, is_public
		 FROM programs `+where, arg)

	var p models.Program
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Level, &p.Goal,
		&p.DurationWeeks, &p.CurrentCycle, &p.IsPublic)
	if err != nil {
		return nil, fmt.Errorf("querying program: %w", mapRowErr(err))
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT id, program_id, name, display_code, archetype, day_index, doc
		 FROM workouts
		 WHERE program_id = $1
		 ORDER BY day_index ASC NULLS LAST, created_at ASC`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("querying program workouts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		p.Workouts = append(p.Workouts, *w)
	}
	return &p, rows.Err()
}

// ListPrograms returns all program shells (no workouts) for browsing.
func (db *DB) ListPrograms(ctx context.Context) ([]models.Program, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, slug, level, goal, duration_weeks, current_cycle, is_public
		 FROM programs ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []models.Program
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Slug, &p.Level, &p.Goal,
			&p.DurationWeeks, &p.CurrentCycle, &p.IsPublic); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var w models.Workout
	var doc []byte
	err := row.Scan(&w.ID, &w.ProgramID, &w.Name, &w.DisplayCode, &w.Archetype, &w.DayIndex, &doc)
	if err != nil {
		return nil, fmt.Errorf("scanning workout: %w", mapRowErr(err))
	}
	if err := json.Unmarshal(doc, &w.Sections); err != nil {
		return nil, fmt.Errorf("unmarshaling workout sections: %w", err)
	}
	return &w, nil
}
