package api

import "net/http"

// handleHealth is the liveness probe. There is no backing store to check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
