package middleware

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests without a verified access token. It expects
// jwtauth.Verifier to run first.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			if errors.Is(err, jwtauth.ErrExpired) {
				response.HandleError(w, auth.ErrTokenExpired)
				return
			}
			response.HandleError(w, auth.ErrInvalidToken)
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

		next.ServeHTTP(w, r)
	})
}
