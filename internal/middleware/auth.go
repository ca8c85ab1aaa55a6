// Package middleware holds the HTTP middleware shared by every route group.
package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"

	"interviewprep/internal/models"
	"interviewprep/internal/utils"
)

type ctxKey int

const userIDKey ctxKey = iota

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the authenticated user id stored by Auth.
func UserID(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey).(uint)
	return id, ok && id != 0
}

// Auth rejects requests without a valid bearer token. Browsers cannot set
// headers on websocket upgrades, so those may pass the token as ?token=.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := utils.VerifyToken(r, secret)
			if errors.Is(err, utils.ErrMissingAuthHeader) && isWebsocket(r) {
				if token := r.URL.Query().Get("token"); token != "" {
					claims, err = utils.VerifyTokenString(token, secret)
				}
			}
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "unauthorized", Message: err.Error()})
				return
			}
			id, err := utils.UserIDFromClaims(claims)
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.ErrorResponse{Code: "unauthorized", Message: err.Error()})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
		})
	}
}

// AdminToken guards operator endpoints with a shared X-Admin-Token header.
// An empty token disables the endpoints.
func AdminToken(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				utils.JSON(w, http.StatusNotFound, models.ErrorResponse{Code: "not_found", Message: "admin endpoints are disabled"})
				return
			}
			got := r.Header.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				utils.JSON(w, http.StatusForbidden, models.ErrorResponse{Code: "forbidden", Message: "invalid admin token"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isWebsocket(r *http.Request) bool {
	return r.Header.Get("Upgrade") == "websocket"
}
