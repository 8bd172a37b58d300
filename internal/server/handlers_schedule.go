package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/types"
)

// handleListItems lists all active scheduled items
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.schedule.ListItems(r.Context())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// handleGetItem retrieves a scheduled item by ID
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid scheduled item ID")
		return
	}

	item, err := s.schedule.GetItem(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, item)
}

// handleMaterialize returns the item's instance for a date, creating it if
// needed. Repeated calls for the same slot return the same instance.
func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid scheduled item ID")
		return
	}

	var req types.MaterializeRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
			return
		}
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	now := s.now()
	date := now
	if req.Date != "" {
		date, _ = time.Parse("2006-01-02", req.Date)
	}

	inst, err := s.schedule.Materialize(r.Context(), id, date, now)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, inst)
}

// handleUpcoming projects which items come due over the horizon
func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := s.horizonDays
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	schedule, err := s.schedule.Upcoming(r.Context(), s.now(), days)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"days": schedule, "horizon_days": days})
}

// handleGetInstance retrieves an instance by ID
func (s *Server) handleGetInstance(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid instance ID")
		return
	}

	inst, err := s.instances.GetInstance(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	if inst == nil {
		s.errorResponse(w, http.StatusNotFound, "Instance not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, inst)
}

// handleCompleteWorkItem marks one entry of an instance completed
func (s *Server) handleCompleteWorkItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid instance ID")
		return
	}

	var req types.CompleteWorkItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}
	completedBy, _ := uuid.Parse(req.CompletedBy)

	inst, err := s.schedule.CompleteWorkItem(r.Context(), id, req.Index, completedBy, s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, inst)
}

// handleReopenWorkItem puts a completed entry back to pending
func (s *Server) handleReopenWorkItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid instance ID")
		return
	}

	var req types.ReopenWorkItemRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	inst, err := s.schedule.ReopenWorkItem(r.Context(), id, req.Index, s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, inst)
}
