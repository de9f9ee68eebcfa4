package models

// Route represents a saved route owned by an experienced cyclist.
type Route struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Points          []Point   `json:"points"`
	Polyline        string    `json:"polyline"`
	DepartureLocal  string    `json:"departureLocal"`
	ArrivalLocal    string    `json:"arrivalLocal"`
	DaysOfWeek      []int     `json:"daysOfWeek"`
	LengthMeters    float64   `json:"lengthMeters"`
	AverageSpeedMps float64   `json:"averageSpeedMps"`
	CreatedAt       Timestamp `json:"createdAt"`
	UpdatedAt       Timestamp `json:"updatedAt"`
}

// RouteCreateRequest is the request body for creating a route.
type RouteCreateRequest struct {
	Name           string  `json:"name" validate:"required,min=1,max=80"`
	Points         []Point `json:"points" validate:"required,min=2"`
	DepartureLocal string  `json:"departureLocal" validate:"required,time_hhmm"`
	ArrivalLocal   string  `json:"arrivalLocal" validate:"required,time_hhmm"`
	DaysOfWeek     []int   `json:"daysOfWeek" validate:"required,dive,gte=1,lte=7"`
}

// RouteUpdateRequest is the request body for updating a route.
type RouteUpdateRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=80"`
	Points         []Point `json:"points,omitempty" validate:"omitempty,min=2"`
	DepartureLocal *string `json:"departureLocal,omitempty" validate:"omitempty,time_hhmm"`
	ArrivalLocal   *string `json:"arrivalLocal,omitempty" validate:"omitempty,time_hhmm"`
	DaysOfWeek     []int   `json:"daysOfWeek,omitempty" validate:"omitempty,dive,gte=1,lte=7"`
}

// PagedRoutes represents a paginated list of routes.
type PagedRoutes struct {
	Items []Route           `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
