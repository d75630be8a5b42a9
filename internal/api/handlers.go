package api

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hallgrim/skald/internal/apperr"
	"github.com/hallgrim/skald/internal/summaryservice"
)

// dayRe constrains day path parameters to the calendar-date key form used by
// the storage layout.
var dayRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Handler holds API route handlers.
type Handler struct {
	svc *summaryservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *summaryservice.Service) *Handler {
	return &Handler{svc: svc}
}

func dayParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	day := chi.URLParam(r, "day")
	if !dayRe.MatchString(day) {
		writeJSON(w, http.StatusBadRequest, errorBody("day must be YYYY-MM-DD"))
		return "", false
	}
	return day, true
}

// ListDays handles GET /api/days.
func (h *Handler) ListDays(w http.ResponseWriter, r *http.Request) {
	days, err := h.svc.ListDays(r.Context())
	if err != nil {
		slog.Error("list days failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days": days,
	})
}

// ListDay handles GET /api/days/{day}.
func (h *Handler) ListDay(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.ListDay(r.Context(), day)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("list day failed", slog.String("day", day), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"day":      day,
		"channels": rows,
	})
}

// GetTranscript handles GET /api/transcripts/{day}/{channel}.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	channel := chi.URLParam(r, "channel")
	detail, err := h.svc.GetTranscript(r.Context(), day, channel)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get transcript failed",
				slog.String("day", day),
				slog.String("channel", channel),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GetSummary handles GET /api/summaries/{day}/{channel}.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	channel := chi.URLParam(r, "channel")
	detail, err := h.svc.GetSummary(r.Context(), day, channel)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get summary failed",
				slog.String("day", day),
				slog.String("channel", channel),
				slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
	})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		slog.Error("stats failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
