package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shreyajadhav98/100-Days-Of-Web-Development-ECWoC26-sub000/internal/utils"
)

// auth is an HTTP middleware that enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates
// it against the shared signing key and issuer, and stores the token's
// subject and session id in the request context under [utils.UserIDCtxKey]
// and [utils.SessionIDCtxKey].
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, ErrEmptyAuthorizationHeader)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err))
			return
		}

		claims, err := utils.ValidateAccessToken(tokenString, h.app.TokenSignKey, h.app.TokenIssuer, h.now())
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidToken, err))
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDCtxKey, claims.Subject)
		ctx = context.WithValue(ctx, utils.SessionIDCtxKey, claims.SessionID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sameUser fails unless userID is the authenticated caller.
func sameUser(ctx context.Context, userID string) error {
	caller, ok := utils.GetUserIDFromContext(ctx)
	if !ok || caller != userID {
		return ErrForeignUser
	}
	return nil
}
