package auth

import (
	"context"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/user"
)

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (user.UserResponse, error)
	Login(ctx context.Context, req LoginRequest, session SessionTrackingRequest) (TokenResponse, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	RefreshToken(ctx context.Context, refreshToken string) (AccessTokenResponse, error)
	ChangePassword(ctx context.Context, req ChangePasswordRequest) error
	// SetPassword replaces a password without checking the current one.
	SetPassword(ctx context.Context, username, password string) error
	ListUsers(ctx context.Context) ([]user.UserResponse, error)
	// EnsureDefaultAdmin seeds the given account when no users exist yet.
	EnsureDefaultAdmin(ctx context.Context, username, password string) (bool, error)
	// PurgeExpiredSessions drops expired refresh tokens and revocations.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
