package models

// Me represents the authenticated user's account summary.
type Me struct {
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName"`
	Locale      string     `json:"locale"`
	Reputation  Reputation `json:"reputation"`
	CreatedAt   Timestamp  `json:"createdAt"`
}

// MeInput is the request body for updating user settings.
type MeInput struct {
	DisplayName *string `json:"displayName,omitempty" validate:"omitempty,min=1,max=60"`
	Locale      *string `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
}

// Reputation represents a rider's review-derived counters.
type Reputation struct {
	DistanceTravelledMeters float64 `json:"distanceTravelledMeters"`
	HelpedCount             int     `json:"helpedCount"`
	UsersHelped             int     `json:"usersHelped"`
	Rating                  float64 `json:"rating"`
}

// PublicProfile is the subset of a rider's profile visible to others.
type PublicProfile struct {
	UserID      string     `json:"userId"`
	DisplayName string     `json:"displayName"`
	Reputation  Reputation `json:"reputation"`
}
