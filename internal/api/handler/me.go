package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pedalmate/pedalmate/internal/api/models"
	"github.com/pedalmate/pedalmate/internal/api/response"
	"github.com/pedalmate/pedalmate/internal/user"
)

// MeHandler handles user account endpoints.
type MeHandler struct {
	users *user.Service
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(users *user.Service) *MeHandler {
	return &MeHandler{users: users}
}

// GetMe handles GET /v1/me - get current user account summary.
func (h *MeHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIMe(u))
}

// UpdateMe handles PATCH /v1/me - update profile fields.
func (h *MeHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	var input models.MeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	u, err := h.users.Update(r.Context(), userID, user.UpdateInput{
		DisplayName: input.DisplayName,
		Locale:      input.Locale,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPIMe(u))
}

// DeleteMe handles DELETE /v1/me - delete the account. Active buddy
// requests involving the user are canceled downstream.
func (h *MeHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID := GetUserID(r.Context())

	if err := h.users.DeleteUser(r.Context(), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.NoContent(w, r)
}

// GetPublicProfile handles GET /v1/users/{userId} - another rider's public
// profile, as shown alongside match results and buddy requests.
func (h *MeHandler) GetPublicProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		response.BadRequest(w, r, "userId is required", nil)
		return
	}

	u, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.JSON(w, r, http.StatusOK, models.PublicProfile{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Reputation:  toAPIReputation(u.Reputation),
	})
}

// toAPIMe converts a domain User to the account summary DTO.
func toAPIMe(u *user.User) models.Me {
	return models.Me{
		UserID:      u.ID,
		DisplayName: u.DisplayName,
		Locale:      u.Locale,
		Reputation:  toAPIReputation(u.Reputation),
		CreatedAt:   models.Timestamp(u.CreatedAt),
	}
}

// toAPIReputation converts domain reputation counters to the DTO. RatingSum
// stays internal; clients only see the derived average.
func toAPIReputation(rep user.Reputation) models.Reputation {
	return models.Reputation{
		DistanceTravelledMeters: rep.DistanceTravelled,
		HelpedCount:             rep.HelpedCount,
		UsersHelped:             rep.UsersHelped,
		Rating:                  rep.Rating,
	}
}
