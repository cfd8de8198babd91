package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/meltforce/forgeplan/internal/rules"
	"github.com/meltforce/forgeplan/internal/schedule"
	"github.com/meltforce/forgeplan/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps the error taxonomy onto HTTP statuses: structural and
// validation failures 400, unknown ids 404, foreign ownership 403, stale
// ordering snapshots 409. Anything unrecognized is a 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var structural rules.Errors
	if errors.As(err, &structural) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "structural validation failed",
			"violations": structural,
		})
		return
	}

	var validation *schedule.ValidationError
	if errors.As(err, &validation) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": validation.Error(),
			"field": validation.Field,
		})
		return
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		writeErrMsg(w, http.StatusNotFound, "not found")
	case errors.Is(err, schedule.ErrOwnership):
		writeErrMsg(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, storage.ErrConflict):
		writeErrMsg(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeErrMsg(w, http.StatusInternalServerError, err.Error())
	}
}

// parseDateRange reads startDate/endDate query params (RFC 3339 or
// YYYY-MM-DD). Missing range defaults to the coming 7 days. The end bound is
// inclusive: a timestamp endDate includes entries at that exact instant, and
// a date-only endDate covers its whole day.
func parseDateRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("startDate")
	endStr := r.URL.Query().Get("endDate")

	if startStr == "" {
		start = time.Now()
		end = start.AddDate(0, 0, 7)
		return
	}

	start, err = parseFlexTime(startStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endStr == "" {
		end = start.AddDate(0, 0, 7)
		return
	}
	end, err = parseFlexTime(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if len(endStr) == len("2006-01-02") {
		// Last representable instant of the day; timestamptz stores
		// microseconds, so nothing on the day falls past this bound.
		end = end.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
