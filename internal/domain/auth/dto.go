package auth

import (
	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Password        string `json:"password" validate:"required,min=3,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func (r *RegisterRequest) Validate() error {
	errs := validator.Struct(r)

	if r.Username != "" && !validator.IsValidUsername(r.Username) {
		errs.Add("username", "username may only contain letters, numbers, dots, underscores, and hyphens")
	}

	return errs.Err()
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.Struct(r).Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken           string            `json:"access_token"`
	AccessTokenExpiresIn  int64             `json:"access_token_expires_in"`
	RefreshToken          string            `json:"refresh_token,omitempty"`
	RefreshTokenExpiresIn int64             `json:"refresh_token_expires_in,omitempty"`
	User                  user.UserResponse `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

// SessionTrackingRequest records where a refresh token was issued.
type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type ChangePasswordRequest struct {
	UserID             string `json:"-"`
	CurrentPassword    string `json:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" validate:"required,min=3,max=72"`
	ConfirmNewPassword string `json:"confirm_new_password" validate:"required,eqfield=NewPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validator.Struct(r).Err()
}
