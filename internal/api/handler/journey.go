package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/api/response"
	"github.com/pedalmate/pedalmate/internal/journey"
)

// JourneyHandler handles saved journey endpoints.
type JourneyHandler struct {
	journeys *journey.Service
}

// NewJourneyHandler creates a new JourneyHandler.
func NewJourneyHandler(journeys *journey.Service) *JourneyHandler {
	return &JourneyHandler{journeys: journeys}
}

// journeyIDParam extracts the journeyId path parameter.
func journeyIDParam(r *http.Request) string {
	return chi.URLParam(r, "journeyId")
}

// ListJourneys handles GET /v1/me/journeys - list saved journeys.
func (h *JourneyHandler) ListJourneys(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	page, err := h.journeys.List(r.Context(), userID, 50)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, page)
}

// CreateJourney handles POST /v1/me/journeys - save a journey.
func (h *JourneyHandler) CreateJourney(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.JourneyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	j, err := h.journeys.Create(r.Context(), userID, &input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/me/journeys/%s", j.ID)
	response.Created(w, r, location, j)
}

// GetJourney handles GET /v1/me/journeys/{journeyId} - get a saved journey.
func (h *JourneyHandler) GetJourney(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	journeyID := journeyIDParam(r)
	if journeyID == "" {
		response.BadRequest(w, r, "journeyId is required", nil)
		return
	}

	j, err := h.journeys.Get(r.Context(), userID, journeyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, j)
}

// UpdateJourney handles PATCH /v1/me/journeys/{journeyId} - update a journey.
func (h *JourneyHandler) UpdateJourney(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	journeyID := journeyIDParam(r)
	if journeyID == "" {
		response.BadRequest(w, r, "journeyId is required", nil)
		return
	}

	var input models.JourneyUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	j, err := h.journeys.Update(r.Context(), userID, journeyID, &input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, j)
}

// DeleteJourney handles DELETE /v1/me/journeys/{journeyId} - delete a journey.
func (h *JourneyHandler) DeleteJourney(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	journeyID := journeyIDParam(r)
	if journeyID == "" {
		response.BadRequest(w, r, "journeyId is required", nil)
		return
	}

	if err := h.journeys.Delete(r.Context(), userID, journeyID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.NoContent(w, r)
}
