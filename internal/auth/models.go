// Package auth provides authentication services for PedalMate.
package auth

// RegisterRequest represents the request body for creating an account.
type RegisterRequest struct {
	// DisplayName is the rider's public name.
	DisplayName string `json:"displayName"`

	// Locale is the rider's preferred language/region (optional).
	Locale string `json:"locale,omitempty"`
}

// Validate validates the register request.
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	if r.DisplayName == "" {
		errors = append(errors, FieldError{
			Field:   "displayName",
			Message: "display name is required",
			Code:    "REQUIRED",
		})
	} else if len(r.DisplayName) > 60 {
		errors = append(errors, FieldError{
			Field:   "displayName",
			Message: "display name must be at most 60 characters",
			Code:    "TOO_LONG",
		})
	}

	return errors
}

// FieldError represents a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// TokenResponse represents the response after successful authentication.
type TokenResponse struct {
	// AccessToken is the JWT access token for API authentication.
	AccessToken string `json:"accessToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the number of seconds until the access token expires.
	ExpiresIn int64 `json:"expiresIn"`

	// RefreshToken is the opaque token used to obtain new access tokens.
	RefreshToken string `json:"refreshToken,omitempty"`

	// UserID is the authenticated user's identifier.
	UserID string `json:"userId"`
}

// RefreshTokenRequest represents the request to refresh an access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate validates the refresh token request.
func (r *RefreshTokenRequest) Validate() []FieldError {
	var errors []FieldError

	if r.RefreshToken == "" {
		errors = append(errors, FieldError{
			Field:   "refreshToken",
			Message: "refresh token is required",
			Code:    "REQUIRED",
		})
	}

	return errors
}
