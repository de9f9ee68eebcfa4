package models

// BuddyRequest represents a buddy ride request between two cyclists.
type BuddyRequest struct {
	ID                   string    `json:"id"`
	OwnerID              string    `json:"ownerId"`
	ExperiencedUserID    string    `json:"experiencedUserId"`
	ExperiencedRouteID   string    `json:"experiencedRouteId"`
	InexperiencedRouteID string    `json:"inexperiencedRouteId,omitempty"`
	ExperiencedRouteName string    `json:"experiencedRouteName"`
	MeetingPoint         Point     `json:"meetingPoint"`
	DivorcePoint         Point     `json:"divorcePoint"`
	MeetingPointName     string    `json:"meetingPointName,omitempty"`
	DivorcePointName     string    `json:"divorcePointName,omitempty"`
	MeetingTime          Timestamp `json:"meetingTime"`
	DivorceTime          Timestamp `json:"divorceTime"`
	Polyline             string    `json:"polyline"`
	LengthMeters         float64   `json:"lengthMeters"`
	AverageSpeedMps      float64   `json:"averageSpeedMps"`
	Status               string    `json:"status"`
	Reason               string    `json:"reason,omitempty"`
	Review               int       `json:"review,omitempty"`
	CreatedAt            Timestamp `json:"createdAt"`
	UpdatedAt            Timestamp `json:"updatedAt"`
}

// BuddyRequestCreateRequest is the request body for creating a buddy request
// out of a match result.
type BuddyRequestCreateRequest struct {
	Result               MatchResult `json:"result" validate:"required"`
	InexperiencedRouteID string      `json:"inexperiencedRouteId,omitempty"`
	Points               []Point     `json:"points" validate:"required,min=2"`
}

// BuddyStatusUpdateRequest is the request body for a status transition.
type BuddyStatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// BuddyDetailsUpdateRequest is the request body for adjusting the rendezvous.
type BuddyDetailsUpdateRequest struct {
	MeetingPoint     *Point     `json:"meetingPoint,omitempty"`
	DivorcePoint     *Point     `json:"divorcePoint,omitempty"`
	MeetingPointName *string    `json:"meetingPointName,omitempty" validate:"omitempty,max=120"`
	DivorcePointName *string    `json:"divorcePointName,omitempty" validate:"omitempty,max=120"`
	MeetingTime      *Timestamp `json:"meetingTime,omitempty"`
	DivorceTime      *Timestamp `json:"divorceTime,omitempty"`
}

// BuddyReviewRequest is the request body for reviewing a completed ride.
type BuddyReviewRequest struct {
	Score int `json:"score" validate:"required,oneof=-1 1"`
}

// PagedBuddyRequests represents a list of buddy requests.
type PagedBuddyRequests struct {
	Items []BuddyRequest    `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
