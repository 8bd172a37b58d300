// Package server provides the HTTP REST API for the scheduling and
// evaluation engine.
package server

import (
	"errors"
	"net/http"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/evaluation"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/recurrence"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/schedule"
	"github.com/Jonp4208/cfa-eval-app-sub002/internal/template"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		evalValidation *evaluation.ErrValidation
		stateConflict  *evaluation.ErrStateConflict
		evalNotFound   *evaluation.ErrEvaluationNotFound
		tmplNotFound   *evaluation.ErrTemplateNotFound
		itemNotFound   *schedule.ErrItemNotFound
		instNotFound   *schedule.ErrInstanceNotFound
		badIndex       *schedule.ErrWorkItemIndex
		configuration  *cycle.ErrConfiguration
		badSpec        *recurrence.InvalidSpecError
		badDocument    *template.ValidationError
	)

	switch {
	case errors.As(err, &stateConflict):
		return http.StatusConflict
	case errors.As(err, &evalNotFound),
		errors.As(err, &tmplNotFound),
		errors.As(err, &itemNotFound),
		errors.As(err, &instNotFound):
		return http.StatusNotFound
	case errors.As(err, &evalValidation),
		errors.As(err, &badIndex),
		errors.As(err, &configuration),
		errors.As(err, &badSpec),
		errors.As(err, &badDocument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
