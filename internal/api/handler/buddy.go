package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/api/response"
	"github.com/pedalmate/pedalmate/internal/buddy"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/reputation"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// BuddyHandler handles buddy request endpoints.
type BuddyHandler struct {
	buddies *buddy.Service
	reviews *reputation.Service
}

// NewBuddyHandler creates a new BuddyHandler.
func NewBuddyHandler(buddies *buddy.Service, reviews *reputation.Service) *BuddyHandler {
	return &BuddyHandler{buddies: buddies, reviews: reviews}
}

// CreateRequest handles POST /v1/requests - send a buddy request for a
// match result.
func (h *BuddyHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.BuddyRequestCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	req, err := h.buddies.Create(r.Context(), userID, buddy.CreateInput{
		Result:               toDomainMatchResult(input.Result),
		InexperiencedRouteID: input.InexperiencedRouteID,
		Route:                toPolyline(input.Points),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	location := fmt.Sprintf("/v1/requests/%s", req.ID)
	response.Created(w, r, location, toAPIBuddyRequest(req))
}

// ListSent handles GET /v1/me/requests/sent - requests the caller sent.
func (h *BuddyHandler) ListSent(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	requests, err := h.buddies.ListSent(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIBuddyList(requests))
}

// ListReceived handles GET /v1/me/requests/received - requests sent to the
// caller's routes.
func (h *BuddyHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	requests, err := h.buddies.ListReceived(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIBuddyList(requests))
}

// GetRequest handles GET /v1/requests/{requestId} - get a request the
// caller participates in.
func (h *BuddyHandler) GetRequest(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	requestID := chi.URLParam(r, "requestId")
	if requestID == "" {
		response.BadRequest(w, r, "requestId is required", nil)
		return
	}

	req, err := h.buddies.Get(r.Context(), userID, requestID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIBuddyRequest(req))
}

// UpdateStatus handles POST /v1/requests/{requestId}/status - apply a
// lifecycle transition.
func (h *BuddyHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	requestID := chi.URLParam(r, "requestId")
	if requestID == "" {
		response.BadRequest(w, r, "requestId is required", nil)
		return
	}

	var input models.BuddyStatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	status := buddy.Status(input.Status)
	if !status.Valid() {
		response.BadRequest(w, r, "validation error", []models.FieldError{
			{Field: "status", Message: "must be one of pending, accepted, rejected, canceled, completed"},
		})
		return
	}

	req, err := h.buddies.UpdateStatus(r.Context(), userID, requestID, status, input.Reason)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIBuddyRequest(req))
}

// UpdateDetails handles PATCH /v1/requests/{requestId} - adjust the
// rendezvous. Only the experienced cyclist may do this.
func (h *BuddyHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	requestID := chi.URLParam(r, "requestId")
	if requestID == "" {
		response.BadRequest(w, r, "requestId is required", nil)
		return
	}

	var input models.BuddyDetailsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	var details buddy.DetailsInput
	if input.MeetingPoint != nil {
		details.MeetingPoint = &geo.Point{Lat: input.MeetingPoint.Lat, Lon: input.MeetingPoint.Lon}
	}
	if input.DivorcePoint != nil {
		details.DivorcePoint = &geo.Point{Lat: input.DivorcePoint.Lat, Lon: input.DivorcePoint.Lon}
	}
	details.MeetingPointName = input.MeetingPointName
	details.DivorcePointName = input.DivorcePointName
	if input.MeetingTime != nil {
		t := input.MeetingTime.Time()
		details.MeetingTime = &t
	}
	if input.DivorceTime != nil {
		t := input.DivorceTime.Time()
		details.DivorceTime = &t
	}

	req, err := h.buddies.UpdateDetails(r.Context(), userID, requestID, details)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIBuddyRequest(req))
}

// Review handles POST /v1/requests/{requestId}/review - review the ride.
// The first review completes the request and credits both riders.
func (h *BuddyHandler) Review(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	requestID := chi.URLParam(r, "requestId")
	if requestID == "" {
		response.BadRequest(w, r, "requestId is required", nil)
		return
	}

	var input models.BuddyReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	req, err := h.reviews.Review(r.Context(), userID, requestID, input.Score)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIBuddyRequest(req))
}

// toDomainMatchResult converts the DTO the rider picked back into a match
// result for request creation.
func toDomainMatchResult(res models.MatchResult) match.Result {
	return match.Result{
		RouteID:                  res.RouteID,
		OwnerID:                  res.OwnerID,
		RouteName:                res.RouteName,
		MeetingPoint:             geo.Point{Lat: res.MeetingPoint.Lat, Lon: res.MeetingPoint.Lon},
		DivorcePoint:             geo.Point{Lat: res.DivorcePoint.Lat, Lon: res.DivorcePoint.Lon},
		MeetingTime:              res.MeetingTime.Time(),
		DivorceTime:              res.DivorceTime.Time(),
		MatchedLength:            res.MatchedLengthMeters,
		AverageSpeed:             res.AverageSpeedMps,
		DistanceToMeetingPoint:   res.DistanceToMeetingPoint,
		DistanceFromDivorcePoint: res.DistanceFromDivorcePoint,
		TimeToMeetingPoint:       time.Duration(res.TimeToMeetingPointSec) * time.Second,
		TimeFromDivorcePoint:     time.Duration(res.TimeFromDivorcePointSec) * time.Second,
	}
}

// toAPIBuddyList converts domain requests to the paged DTO.
func toAPIBuddyList(requests []*buddy.Request) models.PagedBuddyRequests {
	items := make([]models.BuddyRequest, 0, len(requests))
	for _, req := range requests {
		items = append(items, toAPIBuddyRequest(req))
	}
	return models.PagedBuddyRequests{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: len(items)},
	}
}

// toAPIBuddyRequest converts a domain Request to the API DTO.
func toAPIBuddyRequest(req *buddy.Request) models.BuddyRequest {
	return models.BuddyRequest{
		ID:                   req.ID,
		OwnerID:              req.OwnerID,
		ExperiencedUserID:    req.ExperiencedUserID,
		ExperiencedRouteID:   req.ExperiencedRouteID,
		InexperiencedRouteID: req.InexperiencedRouteID,
		ExperiencedRouteName: req.ExperiencedRouteName,
		MeetingPoint:         models.Point{Lat: req.MeetingPoint.Lat, Lon: req.MeetingPoint.Lon},
		DivorcePoint:         models.Point{Lat: req.DivorcePoint.Lat, Lon: req.DivorcePoint.Lon},
		MeetingPointName:     req.MeetingPointName,
		DivorcePointName:     req.DivorcePointName,
		MeetingTime:          models.Timestamp(req.MeetingTime),
		DivorceTime:          models.Timestamp(req.DivorceTime),
		Polyline:             geo.Encode(req.Route),
		LengthMeters:         req.Length,
		AverageSpeedMps:      req.AverageSpeed,
		Status:               string(req.Status),
		Reason:               req.Reason,
		Review:               req.Review,
		CreatedAt:            models.Timestamp(req.CreatedAt),
		UpdatedAt:            models.Timestamp(req.UpdatedAt),
	}
}
