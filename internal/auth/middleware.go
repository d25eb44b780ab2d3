package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"rose-booking/internal/logger"
	"rose-booking/internal/utils"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// RequireRole rejects requests without a valid bearer token carrying role.
func RequireRole(v Verifier, role string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawToken, err := ExtractTokenFromRequest(r)
			if err != nil {
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse(err.Error(), "unauthorized"))
				return
			}

			claims, err := v.Verify(r.Context(), rawToken)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) {
					log.Error("AUTH", fmt.Sprintf("token verification failed: %v", err))
				}
				utils.WriteJSON(w, http.StatusUnauthorized, utils.ErrorResponse("invalid token", "unauthorized"))
				return
			}
			if !claims.HasRole(role) {
				log.Warn("AUTH", fmt.Sprintf("%s denied %s %s", claims.Subject, r.Method, r.URL.Path))
				utils.WriteJSON(w, http.StatusForbidden, utils.ErrorResponse("insufficient role", "forbidden"))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the claims stored by RequireRole, or nil.
func FromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}
