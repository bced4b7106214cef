package middleware

import (
	"context"
	"errors"
	"net/http"

	"storehub-backend/internal/domain"
	"storehub-backend/pkg/logger"
	"storehub-backend/pkg/utils"
)

// AuthMiddleware validates the access token issued by the auth backend and puts the
// seller into the request context. Store ownership is checked by the usecases.
func AuthMiddleware(next http.Handler) http.Handler {
	return authenticate(next, false)
}

// OptionalAuthMiddleware lets requests without a token through as guests. A token that is
// present must still be valid.
func OptionalAuthMiddleware(next http.Handler) http.Handler {
	return authenticate(next, true)
}

func authenticate(next http.Handler, optional bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := utils.ExtractClaims(r)
		if errors.Is(err, utils.ErrNoToken) {
			if optional {
				next.ServeHTTP(w, r)
				return
			}
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: No token provided")
			return
		}
		if err != nil {
			logger.WithContext(r.Context()).Debug().Err(err).Msg("Rejected access token")
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
			return
		}
		if claims.UserID == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Unauthorized: Token has no subject")
			return
		}

		// Partial user from the token claims, no DB hit per request
		user := &domain.User{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		}

		ctx := context.WithValue(r.Context(), domain.UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the user set by AuthMiddleware or OptionalAuthMiddleware.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(domain.UserContextKey).(*domain.User)
	return user, ok && user != nil
}
