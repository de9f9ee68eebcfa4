package handler

import (
	"errors"
	"net/http"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/api/response"
	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/journey"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/internal/user"
)

// writeServiceError maps a domain error onto the problem+json response it
// warrants. Anything unrecognized becomes a 500 without leaking detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		response.BadRequest(w, r, "validation error", verr.Errors)
		return
	}

	var forbidden *buddy.ForbiddenError
	if errors.As(err, &forbidden) {
		response.Forbidden(w, r, forbidden.Reason)
		return
	}

	var invalid *buddy.InvalidTransitionError
	if errors.As(err, &invalid) {
		response.InvalidTransition(w, r, invalid.Reason)
		return
	}

	var reasonRequired *buddy.ReasonRequiredError
	if errors.As(err, &reasonRequired) {
		response.BadRequest(w, r, reasonRequired.Error(), []models.FieldError{
			{Field: "reason", Message: "is required"},
		})
		return
	}

	switch {
	case errors.Is(err, route.ErrRouteNotFound):
		response.NotFound(w, r, "route not found")
	case errors.Is(err, buddy.ErrRequestNotFound):
		response.NotFound(w, r, "buddy request not found")
	case errors.Is(err, journey.ErrJourneyNotFound):
		response.NotFound(w, r, "journey not found")
	case errors.Is(err, user.ErrUserNotFound):
		response.NotFound(w, r, "user not found")
	case errors.Is(err, buddy.ErrConflict):
		response.Conflict(w, r, "the request was modified concurrently, retry with fresh state")
	case errors.Is(err, match.ErrInvalidRadius):
		response.BadRequest(w, r, err.Error(), []models.FieldError{
			{Field: "radiusMeters", Message: "must be between 1 and 2000"},
		})
	default:
		response.InternalError(w, r, "an unexpected error occurred")
	}
}
