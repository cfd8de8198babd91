package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/meltforce/forgeplan/internal/schedule"
	"github.com/meltforce/forgeplan/internal/storage"
	"tailscale.com/client/local"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	sched  *schedule.Service
	log    *slog.Logger
	apiKey string
	router chi.Router
	tsLC   *local.Client
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, sched *schedule.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		sched:  sched,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches identity resolution from the dev fallback to
// Tailscale WhoIs lookups on the tsnet listener.
func (s *Server) SetTailscale(lc *local.Client) {
	s.tsLC = lc
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.Identity)

	// Template ingestion (API key required: the generator/editor surface)
	s.router.Route("/api/v1/templates", func(r chi.Router) {
		r.With(APIKeyAuth(s.apiKey)).Post("/workouts", s.handleIngestWorkout)
		r.With(APIKeyAuth(s.apiKey)).Post("/programs", s.handleIngestProgram)
		r.Get("/programs", s.handleListPrograms)
		r.Get("/programs/{idOrSlug}", s.handleGetProgram)
		r.Get("/workouts/{id}", s.handleGetWorkoutTemplate)
	})

	// Scheduling API
	s.router.Route("/api/v1/schedule", func(r chi.Router) {
		r.Get("/", s.handleGetSchedule)
		r.Post("/", s.handleScheduleWorkout)
		r.Post("/program", s.handleScheduleProgram)
		r.Post("/reorder", s.handleReorderDay)
		r.Patch("/{id}", s.handleMoveScheduled)
		r.Delete("/{id}", s.handleDeleteScheduled)
		r.Post("/{id}/complete", s.handleComplete)
		r.Post("/{id}/uncomplete", s.handleUncomplete)
	})

	s.router.Get("/api/v1/me", s.handleMe)
	s.router.Get("/api/v1/me/programs/schedule", s.handleMySchedule)
	s.router.Get("/api/v1/stats", s.handleStats)
}
