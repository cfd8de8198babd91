package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about stored templates and a user's schedule.
type DataStats struct {
	TotalPrograms     int64           `json:"totalPrograms"`
	TotalWorkouts     int64           `json:"totalWorkouts"`
	TotalScheduled    int64           `json:"totalScheduled"`
	TotalCompleted    int64           `json:"totalCompleted"`
	EarliestScheduled *time.Time      `json:"earliestScheduled"`
	LatestScheduled   *time.Time      `json:"latestScheduled"`
	ByArchetype       []ArchetypeStat `json:"byArchetype"`
}

// ArchetypeStat holds scheduled/completed counts for one archetype.
type ArchetypeStat struct {
	Archetype string `json:"archetype"`
	Scheduled int64  `json:"scheduled"`
	Completed int64  `json:"completed"`
}

// GetDataStats returns aggregate statistics for a user's schedule and the
// shared template library.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM programs`).Scan(&stats.TotalPrograms)
	if err != nil {
		return nil, fmt.Errorf("counting programs: %w", err)
	}

	err = db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&stats.TotalWorkouts)
	if err != nil {
		return nil, fmt.Errorf("counting workouts: %w", err)
	}

	err = db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE workout_id IS NOT NULL),
		        COUNT(*) FILTER (WHERE workout_id IS NOT NULL AND is_completed),
		        MIN(scheduled_at), MAX(scheduled_at)
		 FROM scheduled_workouts WHERE user_id = $1`, userID).
		Scan(&stats.TotalScheduled, &stats.TotalCompleted, &stats.EarliestScheduled, &stats.LatestScheduled)
	if err != nil {
		return nil, fmt.Errorf("counting schedule: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT w.archetype,
		        COUNT(*),
		        COUNT(*) FILTER (WHERE s.is_completed)
		 FROM scheduled_workouts s
		 JOIN workouts w ON w.id = s.workout_id
		 WHERE s.user_id = $1
		 GROUP BY w.archetype
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("grouping by archetype: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a ArchetypeStat
		if err := rows.Scan(&a.Archetype, &a.Scheduled, &a.Completed); err != nil {
			return nil, fmt.Errorf("scanning archetype stat: %w", err)
		}
		stats.ByArchetype = append(stats.ByArchetype, a)
	}
	return stats, rows.Err()
}
