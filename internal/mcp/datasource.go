package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/forgeplan/internal/models"
	"github.com/meltforce/forgeplan/internal/schedule"
	"github.com/meltforce/forgeplan/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both Local (in-process
// service + storage) and HTTPClient (remote via REST API) satisfy this
// interface.
type DataSource interface {
	GetSchedule(ctx context.Context, start, end time.Time, userID int) ([]models.ScheduledWorkout, error)
	GetProgress(ctx context.Context, start, end time.Time, userID int) (*models.Progress, error)
	ScheduleProgram(ctx context.Context, programID uuid.UUID, start time.Time, userID int) ([]models.ScheduledWorkout, error)
	ScheduleWorkout(ctx context.Context, workoutID uuid.UUID, at time.Time, durationMin *int, userID int) (*models.ScheduledWorkout, error)
	SetWorkoutCompleted(ctx context.Context, id uuid.UUID, completed bool, userID int) error
	ListPrograms(ctx context.Context) ([]models.Program, error)
	GetWorkoutTemplate(ctx context.Context, id uuid.UUID) (*models.Workout, error)
}

// Local implements DataSource against the in-process scheduling service and
// template store.
type Local struct {
	svc *schedule.Service
	db  *storage.DB
}

// Compile-time check: *Local satisfies DataSource.
var _ DataSource = (*Local)(nil)

// NewLocal creates a Local data source.
func NewLocal(svc *schedule.Service, db *storage.DB) *Local {
	return &Local{svc: svc, db: db}
}

func (l *Local) GetSchedule(ctx context.Context, start, end time.Time, userID int) ([]models.ScheduledWorkout, error) {
	return l.svc.Schedule(ctx, userID, start, end)
}

func (l *Local) GetProgress(ctx context.Context, start, end time.Time, userID int) (*models.Progress, error) {
	return l.svc.Progress(ctx, userID, start, end)
}

func (l *Local) ScheduleProgram(ctx context.Context, programID uuid.UUID, start time.Time, userID int) ([]models.ScheduledWorkout, error) {
	return l.svc.ExpandProgram(ctx, userID, programID, start)
}

func (l *Local) ScheduleWorkout(ctx context.Context, workoutID uuid.UUID, at time.Time, durationMin *int, userID int) (*models.ScheduledWorkout, error) {
	return l.svc.ScheduleWorkout(ctx, userID, workoutID, at, durationMin)
}

func (l *Local) SetWorkoutCompleted(ctx context.Context, id uuid.UUID, completed bool, userID int) error {
	if completed {
		return l.svc.Complete(ctx, userID, id)
	}
	return l.svc.Uncomplete(ctx, userID, id)
}

func (l *Local) ListPrograms(ctx context.Context) ([]models.Program, error) {
	return l.db.ListPrograms(ctx)
}

func (l *Local) GetWorkoutTemplate(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	return l.db.GetWorkout(ctx, id)
}
