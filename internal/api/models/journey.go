package models

// Journey represents a saved journey: a start/end pair the rider searches
// matches for regularly.
type Journey struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	Start        Point     `json:"start"`
	End          Point     `json:"end"`
	RadiusMeters float64   `json:"radiusMeters"`
	DaysOfWeek   []int     `json:"daysOfWeek"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
}

// JourneyCreateRequest is the request body for creating a journey.
type JourneyCreateRequest struct {
	Label        string  `json:"label" validate:"required,min=1,max=80"`
	Start        Point   `json:"start" validate:"required"`
	End          Point   `json:"end" validate:"required"`
	RadiusMeters float64 `json:"radiusMeters" validate:"required,gte=1,lte=2000"`
	DaysOfWeek   []int   `json:"daysOfWeek" validate:"required,dive,gte=1,lte=7"`
	Notes        *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// JourneyUpdateRequest is the request body for updating a journey.
type JourneyUpdateRequest struct {
	Label        *string  `json:"label,omitempty" validate:"omitempty,min=1,max=80"`
	Start        *Point   `json:"start,omitempty"`
	End          *Point   `json:"end,omitempty"`
	RadiusMeters *float64 `json:"radiusMeters,omitempty" validate:"omitempty,gte=1,lte=2000"`
	DaysOfWeek   []int    `json:"daysOfWeek,omitempty" validate:"omitempty,dive,gte=1,lte=7"`
	Notes        *string  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// PagedJourneys represents a paginated list of journeys.
type PagedJourneys struct {
	Items []Journey         `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
