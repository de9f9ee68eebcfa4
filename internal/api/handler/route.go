package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/api/response"
	"github.com/pedalmate/pedalmate/internal/match"
	"github.com/pedalmate/pedalmate/internal/route"
	"github.com/pedalmate/pedalmate/pkg/geo"
)

// timeHHMMRegex validates HH:mm clock times.
var timeHHMMRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// RouteHandler handles route endpoints for experienced cyclists.
type RouteHandler struct {
	routes *route.Service
	index  *match.Index
}

// NewRouteHandler creates a new RouteHandler. index may be nil; when set,
// route mutations keep the spatial index in sync.
func NewRouteHandler(routes *route.Service, index *match.Index) *RouteHandler {
	return &RouteHandler{routes: routes, index: index}
}

// ListRoutes handles GET /v1/me/routes - list the caller's routes.
func (h *RouteHandler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	result, err := h.routes.List(r.Context(), userID, 50)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	items := make([]models.Route, 0, len(result.Items))
	for _, rt := range result.Items {
		items = append(items, toAPIRoute(rt))
	}

	var nextCursor *string
	if result.NextCursor != "" {
		nextCursor = &result.NextCursor
	}

	response.JSON(w, r, http.StatusOK, models.PagedRoutes{
		Items: items,
		Meta: models.PagedResponseMeta{
			Limit:      50,
			NextCursor: nextCursor,
		},
	})
}

// CreateRoute handles POST /v1/me/routes - record a new route.
func (h *RouteHandler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.RouteCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	departure, err := parseClockTime(input.DepartureLocal)
	if err != nil {
		response.BadRequest(w, r, "validation error", []models.FieldError{
			{Field: "departureLocal", Message: "must be in HH:mm format"},
		})
		return
	}
	arrival, err := parseClockTime(input.ArrivalLocal)
	if err != nil {
		response.BadRequest(w, r, "validation error", []models.FieldError{
			{Field: "arrivalLocal", Message: "must be in HH:mm format"},
		})
		return
	}

	rt, err := h.routes.Create(r.Context(), userID, route.CreateInput{
		Name:      input.Name,
		Polyline:  toPolyline(input.Points),
		Departure: departure,
		Arrival:   arrival,
		Days:      route.DaySetFromISO(input.DaysOfWeek),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if h.index != nil {
		h.index.Upsert(rt)
	}

	location := fmt.Sprintf("/v1/me/routes/%s", rt.ID)
	response.Created(w, r, location, toAPIRoute(rt))
}

// GetRoute handles GET /v1/me/routes/{routeId} - get one of the caller's routes.
func (h *RouteHandler) GetRoute(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	rt, err := h.routes.Get(r.Context(), userID, routeID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIRoute(rt))
}

// UpdateRoute handles PATCH /v1/me/routes/{routeId} - update a route.
func (h *RouteHandler) UpdateRoute(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	var input models.RouteUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	var update route.UpdateInput
	update.Name = input.Name
	if input.Points != nil {
		update.Polyline = toPolyline(input.Points)
	}
	if input.DepartureLocal != nil {
		departure, err := parseClockTime(*input.DepartureLocal)
		if err != nil {
			response.BadRequest(w, r, "validation error", []models.FieldError{
				{Field: "departureLocal", Message: "must be in HH:mm format"},
			})
			return
		}
		update.Departure = &departure
	}
	if input.ArrivalLocal != nil {
		arrival, err := parseClockTime(*input.ArrivalLocal)
		if err != nil {
			response.BadRequest(w, r, "validation error", []models.FieldError{
				{Field: "arrivalLocal", Message: "must be in HH:mm format"},
			})
			return
		}
		update.Arrival = &arrival
	}
	if input.DaysOfWeek != nil {
		days := route.DaySetFromISO(input.DaysOfWeek)
		update.Days = &days
	}

	rt, err := h.routes.Update(r.Context(), userID, routeID, update)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if h.index != nil {
		h.index.Upsert(rt)
	}

	response.JSON(w, r, http.StatusOK, toAPIRoute(rt))
}

// DeleteRoute handles DELETE /v1/me/routes/{routeId} - delete a route.
// Open buddy requests against the route are canceled downstream.
func (h *RouteHandler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())
	routeID := chi.URLParam(r, "routeId")
	if routeID == "" {
		response.BadRequest(w, r, "routeId is required", nil)
		return
	}

	if err := h.routes.Delete(r.Context(), userID, routeID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	if h.index != nil {
		h.index.Remove(routeID)
	}

	response.NoContent(w, r)
}

// parseClockTime parses an HH:mm clock time into an offset from midnight.
func parseClockTime(s string) (time.Duration, error) {
	if !timeHHMMRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// formatClockTime renders an offset from midnight as HH:mm.
func formatClockTime(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// toPolyline converts API points to the geometry type.
func toPolyline(points []models.Point) geo.Polyline {
	pl := make(geo.Polyline, 0, len(points))
	for _, p := range points {
		pl = append(pl, geo.Point{Lat: p.Lat, Lon: p.Lon})
	}
	return pl
}

// toAPIPoints converts a polyline back to API points.
func toAPIPoints(pl geo.Polyline) []models.Point {
	points := make([]models.Point, 0, len(pl))
	for _, p := range pl {
		points = append(points, models.Point{Lat: p.Lat, Lon: p.Lon})
	}
	return points
}

// toAPIRoute converts a domain Route to the API DTO.
func toAPIRoute(rt *route.Route) models.Route {
	return models.Route{
		ID:              rt.ID,
		Name:            rt.Name,
		Points:          toAPIPoints(rt.Polyline),
		Polyline:        geo.Encode(rt.Polyline),
		DepartureLocal:  formatClockTime(rt.Departure),
		ArrivalLocal:    formatClockTime(rt.Arrival),
		DaysOfWeek:      rt.Days.ISO(),
		LengthMeters:    rt.Length(),
		AverageSpeedMps: rt.AverageSpeed(),
		CreatedAt:       models.Timestamp(rt.CreatedAt),
		UpdatedAt:       models.Timestamp(rt.UpdatedAt),
	}
}
