package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/puantaj-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type userContextKey struct{}

// CurrentUser is the account behind an authenticated request.
type CurrentUser struct {
	ID       string
	Username string
}

// AuthRequired rejects requests without a valid, unrevoked access token. It
// expects jwtauth.Verifier to have run first.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if jwtService.IsTokenRevoked(jwtauth.TokenFromHeader(r)) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			userID, _ := claims["user_id"].(string)
			username, _ := claims["username"].(string)
			if userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey{}, CurrentUser{ID: userID, Username: username})
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// UserFromContext returns the user stored by AuthRequired.
func UserFromContext(ctx context.Context) (CurrentUser, bool) {
	u, ok := ctx.Value(userContextKey{}).(CurrentUser)
	return u, ok
}
