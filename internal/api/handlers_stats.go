package api

import (
	"net/http"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	refs, err := s.library.List()
	if err != nil {
		jsonError(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"decks":       len(refs),
		"cached":      s.library.Cached(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}
