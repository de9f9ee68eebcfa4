package models

// MatchSearchRequest is the request body for searching matching routes.
type MatchSearchRequest struct {
	Start        Point      `json:"start" validate:"required"`
	End          Point      `json:"end" validate:"required"`
	RadiusMeters float64    `json:"radiusMeters" validate:"required,gte=1,lte=2000"`
	DaysOfWeek   []int      `json:"daysOfWeek,omitempty" validate:"omitempty,dive,gte=1,lte=7"`
	TargetDate   *Timestamp `json:"targetDate,omitempty"`
}

// MatchResult represents one route that can escort the searcher.
type MatchResult struct {
	RouteID                  string    `json:"routeId"`
	OwnerID                  string    `json:"ownerId"`
	RouteName                string    `json:"routeName"`
	MeetingPoint             Point     `json:"meetingPoint"`
	DivorcePoint             Point     `json:"divorcePoint"`
	MeetingTime              Timestamp `json:"meetingTime"`
	DivorceTime              Timestamp `json:"divorceTime"`
	MatchedLengthMeters      float64   `json:"matchedLengthMeters"`
	AverageSpeedMps          float64   `json:"averageSpeedMps"`
	DistanceToMeetingPoint   float64   `json:"distanceToMeetingPointMeters"`
	DistanceFromDivorcePoint float64   `json:"distanceFromDivorcePointMeters"`
	TimeToMeetingPointSec    int       `json:"timeToMeetingPointSeconds"`
	TimeFromDivorcePointSec  int       `json:"timeFromDivorcePointSeconds"`
	DaysOfWeek               []int     `json:"daysOfWeek"`
}

// MatchSearchResponse is the response for a match search.
type MatchSearchResponse struct {
	GeneratedAt Timestamp     `json:"generatedAt"`
	Results     []MatchResult `json:"results"`
}
