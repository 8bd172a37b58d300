package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/schedule"
)

type stubScheduleAPI struct {
	getItem          func(ctx context.Context, id uuid.UUID) (*schedule.Item, error)
	listItems        func(ctx context.Context) ([]schedule.Item, error)
	materialize      func(ctx context.Context, itemID uuid.UUID, date, now time.Time) (*schedule.Instance, error)
	upcoming         func(ctx context.Context, from time.Time, horizonDays int) ([]schedule.DaySchedule, error)
	completeWorkItem func(ctx context.Context, instanceID uuid.UUID, index int, completedBy uuid.UUID, now time.Time) (*schedule.Instance, error)
	reopenWorkItem   func(ctx context.Context, instanceID uuid.UUID, index int, now time.Time) (*schedule.Instance, error)
}

func (s *stubScheduleAPI) GetItem(ctx context.Context, id uuid.UUID) (*schedule.Item, error) {
	return s.getItem(ctx, id)
}

func (s *stubScheduleAPI) ListItems(ctx context.Context) ([]schedule.Item, error) {
	return s.listItems(ctx)
}

func (s *stubScheduleAPI) Materialize(ctx context.Context, itemID uuid.UUID, date, now time.Time) (*schedule.Instance, error) {
	return s.materialize(ctx, itemID, date, now)
}

func (s *stubScheduleAPI) Upcoming(ctx context.Context, from time.Time, horizonDays int) ([]schedule.DaySchedule, error) {
	return s.upcoming(ctx, from, horizonDays)
}

func (s *stubScheduleAPI) CompleteWorkItem(ctx context.Context, instanceID uuid.UUID, index int, completedBy uuid.UUID, now time.Time) (*schedule.Instance, error) {
	return s.completeWorkItem(ctx, instanceID, index, completedBy, now)
}

func (s *stubScheduleAPI) ReopenWorkItem(ctx context.Context, instanceID uuid.UUID, index int, now time.Time) (*schedule.Instance, error) {
	return s.reopenWorkItem(ctx, instanceID, index, now)
}

type stubInstanceReader struct {
	getInstance func(ctx context.Context, id uuid.UUID) (*schedule.Instance, error)
}

func (s *stubInstanceReader) GetInstance(ctx context.Context, id uuid.UUID) (*schedule.Instance, error) {
	return s.getInstance(ctx, id)
}

type stubEvaluationAPI struct {
	get             func(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error)
	listForEmployee func(ctx context.Context, employeeID uuid.UUID) ([]evaluation.Evaluation, error)
	submitSelf      func(ctx context.Context, id uuid.UUID, answers map[string]any, now time.Time) (*evaluation.Evaluation, error)
	scheduleSession func(ctx context.Context, id uuid.UUID, date *time.Time, startNow bool, now time.Time) (*evaluation.Evaluation, error)
	saveDraft       func(ctx context.Context, id uuid.UUID, party evaluation.Party, partial map[string]any, now time.Time) (*evaluation.Evaluation, error)
	complete        func(ctx context.Context, id uuid.UUID, answers map[string]any, comments string, now time.Time) (*evaluation.Evaluation, error)
	acknowledge     func(ctx context.Context, id uuid.UUID, now time.Time) (*evaluation.Evaluation, error)
	summary         func(ctx context.Context, id uuid.UUID) (*evaluation.Summary, error)
}

func (s *stubEvaluationAPI) Get(ctx context.Context, id uuid.UUID) (*evaluation.Evaluation, error) {
	return s.get(ctx, id)
}

func (s *stubEvaluationAPI) ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]evaluation.Evaluation, error) {
	return s.listForEmployee(ctx, employeeID)
}

func (s *stubEvaluationAPI) SubmitSelf(ctx context.Context, id uuid.UUID, answers map[string]any, now time.Time) (*evaluation.Evaluation, error) {
	return s.submitSelf(ctx, id, answers, now)
}

func (s *stubEvaluationAPI) ScheduleSession(ctx context.Context, id uuid.UUID, date *time.Time, startNow bool, now time.Time) (*evaluation.Evaluation, error) {
	return s.scheduleSession(ctx, id, date, startNow, now)
}

func (s *stubEvaluationAPI) SaveDraft(ctx context.Context, id uuid.UUID, party evaluation.Party, partial map[string]any, now time.Time) (*evaluation.Evaluation, error) {
	return s.saveDraft(ctx, id, party, partial, now)
}

func (s *stubEvaluationAPI) Complete(ctx context.Context, id uuid.UUID, answers map[string]any, comments string, now time.Time) (*evaluation.Evaluation, error) {
	return s.complete(ctx, id, answers, comments, now)
}

func (s *stubEvaluationAPI) Acknowledge(ctx context.Context, id uuid.UUID, now time.Time) (*evaluation.Evaluation, error) {
	return s.acknowledge(ctx, id, now)
}

func (s *stubEvaluationAPI) Summary(ctx context.Context, id uuid.UUID) (*evaluation.Summary, error) {
	return s.summary(ctx, id)
}

type stubCycleAPI struct {
	setAutoSchedule func(ctx context.Context, enabled bool, policy cycle.Policy, today time.Time) (*cycle.Tally, error)
}

func (s *stubCycleAPI) SetAutoSchedule(ctx context.Context, enabled bool, policy cycle.Policy, today time.Time) (*cycle.Tally, error) {
	return s.setAutoSchedule(ctx, enabled, policy, today)
}

var testNow = time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

func newTestServer(scheduleAPI *stubScheduleAPI, instances *stubInstanceReader, evaluations *stubEvaluationAPI, cycles *stubCycleAPI) *Server {
	s := New(Config{Port: 0, HorizonDays: 30}, zerolog.Nop(), scheduleAPI, instances, evaluations, cycles)
	s.now = func() time.Time { return testNow }
	return s
}

func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.routes().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)
	w := doRequest(s, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHandleListItems(t *testing.T) {
	scheduleAPI := &stubScheduleAPI{
		listItems: func(context.Context) ([]schedule.Item, error) {
			return []schedule.Item{{ID: uuid.New(), Name: "Opening Checklist"}}, nil
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodGet, "/scheduled-items", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []schedule.Item `json:"items"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Opening Checklist", resp.Items[0].Name)
}

func TestHandleGetItem_InvalidID(t *testing.T) {
	s := newTestServer(&stubScheduleAPI{}, nil, nil, nil)

	w := doRequest(s, http.MethodGet, "/scheduled-items/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetItem_NotFound(t *testing.T) {
	itemID := uuid.New()
	scheduleAPI := &stubScheduleAPI{
		getItem: func(_ context.Context, id uuid.UUID) (*schedule.Item, error) {
			return nil, &schedule.ErrItemNotFound{ItemID: id}
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodGet, "/scheduled-items/"+itemID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleMaterialize(t *testing.T) {
	itemID := uuid.New()
	instID := uuid.New()
	scheduleAPI := &stubScheduleAPI{
		materialize: func(_ context.Context, id uuid.UUID, date, now time.Time) (*schedule.Instance, error) {
			assert.Equal(t, itemID, id)
			assert.Equal(t, "2026-09-01", date.Format("2006-01-02"))
			assert.Equal(t, testNow, now)
			return &schedule.Instance{ID: instID, ScheduledItemID: id, SlotKey: "2026-09-01"}, nil
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodPost, "/scheduled-items/"+itemID.String()+"/instances",
		map[string]string{"date": "2026-09-01"})

	assert.Equal(t, http.StatusOK, w.Code)
	var inst schedule.Instance
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inst))
	assert.Equal(t, instID, inst.ID)
}

func TestHandleMaterialize_EmptyBodyDefaultsToToday(t *testing.T) {
	itemID := uuid.New()
	scheduleAPI := &stubScheduleAPI{
		materialize: func(_ context.Context, _ uuid.UUID, date, _ time.Time) (*schedule.Instance, error) {
			assert.Equal(t, testNow, date)
			return &schedule.Instance{ID: uuid.New()}, nil
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodPost, "/scheduled-items/"+itemID.String()+"/instances", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleMaterialize_BadDate(t *testing.T) {
	s := newTestServer(&stubScheduleAPI{}, nil, nil, nil)

	w := doRequest(s, http.MethodPost, "/scheduled-items/"+uuid.NewString()+"/instances",
		map[string]string{"date": "09/01/2026"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleUpcoming(t *testing.T) {
	scheduleAPI := &stubScheduleAPI{
		upcoming: func(_ context.Context, from time.Time, horizonDays int) ([]schedule.DaySchedule, error) {
			assert.Equal(t, 7, horizonDays)
			return []schedule.DaySchedule{{Date: from.AddDate(0, 0, 1)}}, nil
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodGet, "/schedule/upcoming?days=7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		HorizonDays int `json:"horizon_days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.HorizonDays)
}

func TestHandleUpcoming_DefaultHorizon(t *testing.T) {
	scheduleAPI := &stubScheduleAPI{
		upcoming: func(_ context.Context, _ time.Time, horizonDays int) ([]schedule.DaySchedule, error) {
			assert.Equal(t, 30, horizonDays)
			return nil, nil
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodGet, "/schedule/upcoming", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleUpcoming_BadDays(t *testing.T) {
	s := newTestServer(&stubScheduleAPI{}, nil, nil, nil)

	w := doRequest(s, http.MethodGet, "/schedule/upcoming?days=zero", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleCompleteWorkItem(t *testing.T) {
	instID := uuid.New()
	userID := uuid.New()
	scheduleAPI := &stubScheduleAPI{
		completeWorkItem: func(_ context.Context, id uuid.UUID, index int, completedBy uuid.UUID, _ time.Time) (*schedule.Instance, error) {
			assert.Equal(t, instID, id)
			assert.Equal(t, 1, index)
			assert.Equal(t, userID, completedBy)
			return &schedule.Instance{ID: id, Status: schedule.InstanceCompleted}, nil
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodPost, "/instances/"+instID.String()+"/work-items/complete",
		map[string]any{"index": 1, "completed_by": userID.String()})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleCompleteWorkItem_BadIndex(t *testing.T) {
	instID := uuid.New()
	scheduleAPI := &stubScheduleAPI{
		completeWorkItem: func(_ context.Context, id uuid.UUID, index int, _ uuid.UUID, _ time.Time) (*schedule.Instance, error) {
			return nil, &schedule.ErrWorkItemIndex{InstanceID: id, Index: index}
		},
	}
	s := newTestServer(scheduleAPI, nil, nil, nil)

	w := doRequest(s, http.MethodPost, "/instances/"+instID.String()+"/work-items/complete",
		map[string]any{"index": 9, "completed_by": uuid.NewString()})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleGetInstance_NotFound(t *testing.T) {
	instances := &stubInstanceReader{
		getInstance: func(context.Context, uuid.UUID) (*schedule.Instance, error) {
			return nil, nil
		},
	}
	s := newTestServer(nil, instances, nil, nil)

	w := doRequest(s, http.MethodGet, "/instances/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSubmitSelf_Conflict(t *testing.T) {
	evalID := uuid.New()
	evaluations := &stubEvaluationAPI{
		submitSelf: func(_ context.Context, id uuid.UUID, _ map[string]any, _ time.Time) (*evaluation.Evaluation, error) {
			return nil, &evaluation.ErrStateConflict{
				EvaluationID: id,
				Operation:    "submit self-evaluation",
				Status:       evaluation.StatusPendingReview,
				Expected:     evaluation.StatusPendingSelf,
			}
		},
	}
	s := newTestServer(nil, nil, evaluations, nil)

	w := doRequest(s, http.MethodPost, "/evaluations/"+evalID.String()+"/self",
		map[string]any{"answers": map[string]any{"0-0": 4}})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleSubmitSelf_MissingAnswers(t *testing.T) {
	s := newTestServer(nil, nil, &stubEvaluationAPI{}, nil)

	w := doRequest(s, http.MethodPost, "/evaluations/"+uuid.NewString()+"/self",
		map[string]any{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleScheduleSession_StartNow(t *testing.T) {
	evalID := uuid.New()
	evaluations := &stubEvaluationAPI{
		scheduleSession: func(_ context.Context, id uuid.UUID, date *time.Time, startNow bool, _ time.Time) (*evaluation.Evaluation, error) {
			assert.Nil(t, date)
			assert.True(t, startNow)
			return &evaluation.Evaluation{ID: id, Status: evaluation.StatusInSession}, nil
		},
	}
	s := newTestServer(nil, nil, evaluations, nil)

	w := doRequest(s, http.MethodPost, "/evaluations/"+evalID.String()+"/session",
		map[string]any{"start_now": true})

	assert.Equal(t, http.StatusOK, w.Code)
	var e evaluation.Evaluation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	assert.Equal(t, evaluation.StatusInSession, e.Status)
}

func TestHandleSaveDraft_UnknownParty(t *testing.T) {
	s := newTestServer(nil, nil, &stubEvaluationAPI{}, nil)

	w := doRequest(s, http.MethodPut, "/evaluations/"+uuid.NewString()+"/draft",
		map[string]any{"party": "auditor", "answers": map[string]any{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleComplete_ValidationError(t *testing.T) {
	evaluations := &stubEvaluationAPI{
		complete: func(_ context.Context, _ uuid.UUID, _ map[string]any, _ string, _ time.Time) (*evaluation.Evaluation, error) {
			return nil, &evaluation.ErrValidation{Missing: []evaluation.MissingAnswer{
				{Key: "1-0", Section: "Food Safety", Question: "Follows handwashing procedure"},
			}}
		},
	}
	s := newTestServer(nil, nil, evaluations, nil)

	w := doRequest(s, http.MethodPost, "/evaluations/"+uuid.NewString()+"/complete",
		map[string]any{"answers": map[string]any{"0-0": 4}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Food Safety")
}

func TestHandleAcknowledge_NotFound(t *testing.T) {
	evaluations := &stubEvaluationAPI{
		acknowledge: func(_ context.Context, id uuid.UUID, _ time.Time) (*evaluation.Evaluation, error) {
			return nil, &evaluation.ErrEvaluationNotFound{EvaluationID: id}
		},
	}
	s := newTestServer(nil, nil, evaluations, nil)

	w := doRequest(s, http.MethodPost, "/evaluations/"+uuid.NewString()+"/acknowledge", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleSummary(t *testing.T) {
	evaluations := &stubEvaluationAPI{
		summary: func(context.Context, uuid.UUID) (*evaluation.Summary, error) {
			return &evaluation.Summary{
				Manager: evaluation.ScoreSummary{Score: 12, Total: 15, Percentage: 80},
			}, nil
		},
	}
	s := newTestServer(nil, nil, evaluations, nil)

	w := doRequest(s, http.MethodGet, "/evaluations/"+uuid.NewString()+"/summary", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var summary evaluation.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 80, summary.Manager.Percentage)
}

func TestHandleSetAutoSchedule_Enable(t *testing.T) {
	cycles := &stubCycleAPI{
		setAutoSchedule: func(_ context.Context, enabled bool, policy cycle.Policy, today time.Time) (*cycle.Tally, error) {
			assert.True(t, enabled)
			assert.Equal(t, cycle.PolicyImmediate, policy)
			assert.Equal(t, testNow, today)
			return &cycle.Tally{Scheduled: 3, Skipped: 7}, nil
		},
	}
	s := newTestServer(nil, nil, nil, cycles)

	w := doRequest(s, http.MethodPut, "/settings/auto-schedule",
		map[string]any{"enabled": true, "policy": "immediate"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Enabled bool        `json:"enabled"`
		Tally   cycle.Tally `json:"tally"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Enabled)
	assert.Equal(t, 3, resp.Tally.Scheduled)
}

func TestHandleSetAutoSchedule_UnassignedEvaluators(t *testing.T) {
	cycles := &stubCycleAPI{
		setAutoSchedule: func(context.Context, bool, cycle.Policy, time.Time) (*cycle.Tally, error) {
			return nil, &cycle.ErrConfiguration{UnassignedEvaluators: 3, EmployeeIDs: []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}}
		},
	}
	s := newTestServer(nil, nil, nil, cycles)

	w := doRequest(s, http.MethodPut, "/settings/auto-schedule",
		map[string]any{"enabled": true})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSetAutoSchedule_UnknownPolicy(t *testing.T) {
	s := newTestServer(nil, nil, nil, &stubCycleAPI{})

	w := doRequest(s, http.MethodPut, "/settings/auto-schedule",
		map[string]any{"enabled": true, "policy": "whenever"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
