package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/api/response"
	"github.com/pedalmate/pedalmate/internal/journey"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// MatchHandler handles match search endpoints.
type MatchHandler struct {
	matches  *match.Service
	journeys *journey.Service
}

// NewMatchHandler creates a new MatchHandler. journeys may be nil when
// saved-journey search is not wired.
func NewMatchHandler(matches *match.Service, journeys *journey.Service) *MatchHandler {
	return &MatchHandler{matches: matches, journeys: journeys}
}

// Search handles POST /v1/matches:search - find routes the caller can join.
func (h *MatchHandler) Search(w http.ResponseWriter, r *http.Request) {
	var input models.MatchSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	q := match.Query{
		Start:        geo.Point{Lat: input.Start.Lat, Lon: input.Start.Lon},
		End:          geo.Point{Lat: input.End.Lat, Lon: input.End.Lon},
		RadiusMeters: input.RadiusMeters,
		Days:         route.DaySetFromISO(input.DaysOfWeek),
	}
	if input.TargetDate != nil {
		target := input.TargetDate.Time()
		q.TargetTime = &target
	}

	h.search(w, r, q)
}

// SearchJourney handles POST /v1/me/journeys/{journeyId}:search - re-run a
// saved journey as a match search.
func (h *MatchHandler) SearchJourney(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	journeyID := journeyIDParam(r)
	if journeyID == "" {
		response.BadRequest(w, r, "journeyId is required", nil)
		return
	}

	q, err := h.journeys.Query(r.Context(), userID, journeyID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.search(w, r, q)
}

// search runs the query and writes the result set.
func (h *MatchHandler) search(w http.ResponseWriter, r *http.Request, q match.Query) {
	results, err := h.matches.Search(r.Context(), q)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]models.MatchResult, 0, len(results))
	for _, res := range results {
		items = append(items, toAPIMatchResult(res))
	}

	// Results depend on the live route corpus; keep caching short and private.
	w.Header().Set("Cache-Control", "private, max-age=60")
	response.JSON(w, r, http.StatusOK, models.MatchSearchResponse{
		GeneratedAt: models.Timestamp(time.Now()),
		Results:     items,
	})
}

// toAPIMatchResult converts a match result to the API DTO.
func toAPIMatchResult(res match.Result) models.MatchResult {
	return models.MatchResult{
		RouteID:                  res.RouteID,
		OwnerID:                  res.OwnerID,
		RouteName:                res.RouteName,
		MeetingPoint:             models.Point{Lat: res.MeetingPoint.Lat, Lon: res.MeetingPoint.Lon},
		DivorcePoint:             models.Point{Lat: res.DivorcePoint.Lat, Lon: res.DivorcePoint.Lon},
		MeetingTime:              models.Timestamp(res.MeetingTime),
		DivorceTime:              models.Timestamp(res.DivorceTime),
		MatchedLengthMeters:      res.MatchedLength,
		AverageSpeedMps:          res.AverageSpeed,
		DistanceToMeetingPoint:   res.DistanceToMeetingPoint,
		DistanceFromDivorcePoint: res.DistanceFromDivorcePoint,
		TimeToMeetingPointSec:    int(res.TimeToMeetingPoint.Seconds()),
		TimeFromDivorcePointSec:  int(res.TimeFromDivorcePoint.Seconds()),
		DaysOfWeek:               res.Days.ISO(),
	}
}
