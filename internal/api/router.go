package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hallgrim/skald/internal/summaryservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *summaryservice.Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Archive browsing.
	r.Get("/days", h.ListDays)
	r.Get("/days/{day}", h.ListDay)
	r.Get("/transcripts/{day}/{channel}", h.GetTranscript)
	r.Get("/summaries/{day}/{channel}", h.GetSummary)

	// Search and aggregates.
	r.Get("/search", h.Search)
	r.Get("/stats", h.Stats)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
