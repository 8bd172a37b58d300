package server

import (
	"net/http"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/types"
)

// handleSetAutoSchedule toggles organization-wide evaluation auto-scheduling.
// Enabling runs the batch scheduler over the whole directory and returns
// its tally; disabling only flips the flag.
func (s *Server) handleSetAutoSchedule(w http.ResponseWriter, r *http.Request) {
	var req types.AutoScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	tally, err := s.cycles.SetAutoSchedule(r.Context(), req.Enabled, cycle.Policy(req.Policy), s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"enabled": req.Enabled, "tally": tally})
}
