package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/forgeplan/internal/models"
)

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	start, end, err := parseDateRange(r)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid date range: "+err.Error())
		return
	}

	entries, err := s.sched.Schedule(r.Context(), uid, start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.ScheduledWorkout{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type scheduleWorkoutRequest struct {
	WorkoutID     uuid.UUID `json:"workoutId"`
	ScheduledDate string    `json:"scheduledDate"`
	Duration      *int      `json:"duration,omitempty"`
}

func (s *Server) handleScheduleWorkout(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req scheduleWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.WorkoutID == uuid.Nil {
		writeErrMsg(w, http.StatusBadRequest, "workoutId is required")
		return
	}
	at, err := parseFlexTime(req.ScheduledDate)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid scheduledDate: "+err.Error())
		return
	}

	entry, err := s.sched.ScheduleWorkout(r.Context(), uid, req.WorkoutID, at, req.Duration)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

type scheduleProgramRequest struct {
	ProgramID uuid.UUID `json:"programId"`
	StartDate string    `json:"startDate"`
	StartTime string    `json:"startTime"`
}

func (s *Server) handleScheduleProgram(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req scheduleProgramRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	if req.ProgramID == uuid.Nil {
		writeErrMsg(w, http.StatusBadRequest, "programId is required")
		return
	}
	date, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid startDate (YYYY-MM-DD): "+err.Error())
		return
	}
	if req.StartTime == "" {
		req.StartTime = "09:00"
	}
	tod, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid startTime (HH:MM): "+err.Error())
		return
	}
	start := time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), 0, 0, time.Local)

	entries, err := s.sched.ExpandProgram(r.Context(), uid, req.ProgramID, start)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entries)
}

type moveRequest struct {
	ScheduledDate *string `json:"scheduledDate,omitempty"`
	Order         *int    `json:"order,omitempty"`
}

func (s *Server) handleMoveScheduled(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid scheduled workout ID")
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var newAt *time.Time
	if req.ScheduledDate != nil {
		at, err := parseFlexTime(*req.ScheduledDate)
		if err != nil {
			writeErrMsg(w, http.StatusBadRequest, "invalid scheduledDate: "+err.Error())
			return
		}
		newAt = &at
	}

	entry, err := s.sched.Move(r.Context(), uid, id, newAt, req.Order)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

type reorderRequest struct {
	Date       string      `json:"date"`
	OrderedIDs []uuid.UUID `json:"orderedIds"`
}

func (s *Server) handleReorderDay(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid date (YYYY-MM-DD): "+err.Error())
		return
	}

	if err := s.sched.Reorder(r.Context(), uid, day, req.OrderedIDs); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteScheduled(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid scheduled workout ID")
		return
	}

	if err := s.sched.Delete(r.Context(), uid, id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	s.setCompletion(w, r, true)
}

func (s *Server) handleUncomplete(w http.ResponseWriter, r *http.Request) {
	s.setCompletion(w, r, false)
}

func (s *Server) setCompletion(w http.ResponseWriter, r *http.Request, completed bool) {
	uid := userIDFromContext(r)
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid scheduled workout ID")
		return
	}

	if completed {
		err = s.sched.Complete(r.Context(), uid, id)
	} else {
		err = s.sched.Uncomplete(r.Context(), uid, id)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMySchedule(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	start, end, err := parseDateRange(r)
	if err != nil {
		writeErrMsg(w, http.StatusBadRequest, "invalid date range: "+err.Error())
		return
	}

	entries, err := s.sched.Schedule(r.Context(), uid, start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []models.ScheduledWorkout{}
	}
	progress, err := s.sched.Progress(r.Context(), uid, start, end)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"schedule": entries,
		"progress": progress,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid := userIDFromContext(r)
	stats, err := s.db.GetDataStats(r.Context(), uid)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}
