// Package server provides the HTTP REST API for the scheduling and
// evaluation engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/schedule"
)

// ScheduleAPI is the schedule service surface the handlers depend on.
type ScheduleAPI interface {
	GetItem(ctx context.Context, id uuid.UUID) (*schedule.Item, error)
	ListItems(ctx context.Context) ([]schedule.Item, error)
	Materialize(ctx context.Context, itemID uuid.UUID, date, now time.Time) (*schedule.Instance, error)
	Upcoming(ctx context.Context, from time.Time, horizonDays int) ([]schedule.DaySchedule, error)
	CompleteWorkItem(ctx context.Context, instanceID uuid.UUID, index int, completedBy uuid.UUID, now time.Time) (*schedule.Instance, error)
	ReopenWorkItem(ctx context.Context, instanceID uuid.UUID, index int, now time.Time) (*schedule.Instance, error)
}

// InstanceReader loads one instance for display.
type InstanceReader interface {
	GetInstance(ctx context.Context, id uuid.UUID) (*schedule.Instance, error)
}

// EvaluationAPI is the evaluation service surface the handlers depend on.
type EvaluationAPI interface {
	Get(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error)
	ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]evaluation.Evaluation, error)
	SubmitSelf(ctx context.Context, id uuid.UUID, answers map[string]any, now time.Time) (*evaluation.Evaluation, error)
	ScheduleSession(ctx context.Context, id uuid.UUID, date *time.Time, startNow bool, now time.Time) (*evaluation.Evaluation, error)
	SaveDraft(ctx context.Context, id uuid.UUID, party evaluation.Party, partial map[string]any, now time.Time) (*evaluation.Evaluation, error)
	Complete(ctx context.Context, id uuid.UUID, managerAnswers map[string]any, overallComments string, now time.Time) (*evaluation.Evaluation, error)
	Acknowledge(ctx context.Context, id uuid.UUID, now time.Time) (*evaluation.Evaluation, error)
	Summary(ctx context.Context, id uuid.UUID) (*evaluation.Summary, error)
}

// CycleAPI is the scheduling-policy surface the handlers depend on.
type CycleAPI interface {
	SetAutoSchedule(ctx context.Context, enabled bool, policy cycle.Policy, today time.Time) (*cycle.Tally, error)
}

// Config holds server configuration
type Config struct {
	Port        int
	HorizonDays int
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	logger      zerolog.Logger
	schedule    ScheduleAPI
	instances   InstanceReader
	evaluations EvaluationAPI
	cycles      CycleAPI
	horizonDays int
	now         func() time.Time
}

// New creates a new server instance over the given service surfaces.
func New(cfg Config, logger zerolog.Logger, scheduleAPI ScheduleAPI, instances InstanceReader, evaluations EvaluationAPI, cycles CycleAPI) *Server {
	s := &Server{
		logger:      logger,
		schedule:    scheduleAPI,
		instances:   instances,
		evaluations: evaluations,
		cycles:      cycles,
		horizonDays: cfg.HorizonDays,
		now:         time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Scheduled items and instances
	mux.HandleFunc("GET /scheduled-items", s.handleListItems)
	mux.HandleFunc("GET /scheduled-items/{id}", s.handleGetItem)
	mux.HandleFunc("POST /scheduled-items/{id}/instances", s.handleMaterialize)
	mux.HandleFunc("GET /schedule/upcoming", s.handleUpcoming)
	mux.HandleFunc("GET /instances/{id}", s.handleGetInstance)
	mux.HandleFunc("POST /instances/{id}/work-items/complete", s.handleCompleteWorkItem)
	mux.HandleFunc("POST /instances/{id}/work-items/reopen", s.handleReopenWorkItem)

	// Evaluations
	mux.HandleFunc("GET /evaluations/{id}", s.handleGetEvaluation)
	mux.HandleFunc("GET /employees/{id}/evaluations", s.handleListEvaluations)
	mux.HandleFunc("POST /evaluations/{id}/self", s.handleSubmitSelf)
	mux.HandleFunc("POST /evaluations/{id}/session", s.handleScheduleSession)
	mux.HandleFunc("PUT /evaluations/{id}/draft", s.handleSaveDraft)
	mux.HandleFunc("POST /evaluations/{id}/complete", s.handleComplete)
	mux.HandleFunc("POST /evaluations/{id}/acknowledge", s.handleAcknowledge)
	mux.HandleFunc("GET /evaluations/{id}/summary", s.handleSummary)

	// Organization settings
	mux.HandleFunc("PUT /settings/auto-schedule", s.handleSetAutoSchedule)

	return mux
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal().Err(err).Msg("server error")
		}
	}()

	<-stop
	s.logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote", r.RemoteAddr).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps a service-layer error onto the response.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("internal error")
	}
	s.errorResponse(w, status, err.Error())
}

// pathID parses the {id} path segment as a UUID.
func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
