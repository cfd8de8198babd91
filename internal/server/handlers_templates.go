package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/forgeplan/internal/models"
	"github.com/meltforce/forgeplan/internal/rules"
)

// handleIngestWorkout accepts a standalone workout document from the
// generator or an editor. The whole document is rejected on any structural
// violation; nothing is coerced.
func (s *Server) handleIngestWorkout(w http.ResponseWriter, r *http.Request) {
	var workout models.Workout
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if workout.ID == uuid.Nil {
		workout.ID = uuid.New()
	}

	if err := rules.ValidateWorkout(&workout); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.db.InsertWorkout(r.Context(), &workout); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

// handleIngestProgram accepts a program document with inline workouts.
func (s *Server) handleIngestProgram(w http.ResponseWriter, r *http.Request) {
	var program models.Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if program.ID == uuid.Nil {
		program.ID = uuid.New()
	}
	for i := range program.Workouts {
		if program.Workouts[i].ID == uuid.Nil {
			program.Workouts[i].ID = uuid.New()
		}
	}

	if err := rules.ValidateProgram(&program); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.db.InsertProgram(r.Context(), &program); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("program ingested", "slug", program.Slug, "workouts", len(program.Workouts))
	writeJSON(w, http.StatusCreated, program)
}

func (s *Server) handleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := s.db.ListPrograms(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if programs == nil {
		programs = []models.Program{}
	}
	writeJSON(w, http.StatusOK, programs)
}

// handleGetProgram resolves a program by UUID or, failing that, by slug.
func (s *Server) handleGetProgram(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	var program *models.Program
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		program, err = s.db.GetProgram(r.Context(), id)
	} else {
		program, err = s.db.GetProgramBySlug(r.Context(), idOrSlug)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, program)
}

func (s *Server) handleGetWorkoutTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid workout ID")
		return
	}

	workout, err := s.db.GetWorkout(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}
