package middlewares

import (
	"net/http"

	"github.com/sbilibin2017/dtc-admin/internal/jwt"
)

const (
	LoginPath    = "/login"
	ProfilesPath = "/dtc-profiles"
)

func hasSession(tokener Tokener, r *http.Request) bool {
	ctx := r.Context()
	token, err := tokener.GetTokenFromRequest(ctx, r)
	if err != nil {
		return false
	}
	claims, err := tokener.GetClaims(ctx, token)
	return err == nil && claims.Purpose == jwt.PurposeSession
}

// GuestOnlyMiddleware sends signed-in operators away from the login,
// register and forgot-password pages.
func GuestOnlyMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasSession(tokener, r) {
				http.Redirect(w, r, ProfilesPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSessionMiddleware sends visitors without a session to the login page.
func RequireSessionMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hasSession(tokener, r) {
				http.Redirect(w, r, LoginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
