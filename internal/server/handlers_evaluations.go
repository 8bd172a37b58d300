package server

import (
	"net/http"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/types"
)

// handleGetEvaluation retrieves an evaluation by ID
func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	e, err := s.evaluations.Get(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

// handleListEvaluations lists an employee's evaluations
func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	employeeID, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}

	evals, err := s.evaluations.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"evaluations": evals, "total": len(evals)})
}

// handleSubmitSelf submits the employee's self-evaluation answers
func (s *Server) handleSubmitSelf(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	var req types.SubmitSelfRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	e, err := s.evaluations.SubmitSelf(r.Context(), id, req.Answers, s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

// handleScheduleSession sets the review session date, or starts the
// session immediately when start_now is set
func (s *Server) handleScheduleSession(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	var req types.SessionRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	e, err := s.evaluations.ScheduleSession(r.Context(), id, req.Date, req.StartNow, s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

// handleSaveDraft merges partial answers for one party without advancing
// the evaluation's state
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	var req types.DraftRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	e, err := s.evaluations.SaveDraft(r.Context(), id, evaluation.Party(req.Party), req.Answers, s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

// handleComplete closes the evaluation with the manager's final answers
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	var req types.CompleteRequest
	if err := decodeBody(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	e, err := s.evaluations.Complete(r.Context(), id, req.Answers, req.OverallComments, s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

// handleAcknowledge records the employee's sign-off on a completed evaluation
func (s *Server) handleAcknowledge(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	e, err := s.evaluations.Acknowledge(r.Context(), id, s.now())
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, e)
}

// handleSummary builds the score aggregation and comparison view
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid evaluation ID")
		return
	}

	summary, err := s.evaluations.Summary(r.Context(), id)
	if err != nil {
		s.serviceError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summary)
}
