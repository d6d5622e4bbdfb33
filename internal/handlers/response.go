package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sbilibin2017/dtc-admin/internal/jwt"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
	"github.com/sbilibin2017/dtc-admin/internal/middlewares"
)

// ErrorResponse is the body of every failed API call. The dashboard shows
// Error in its error notification.
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

// MessageResponse is returned by calls whose only result is a notification.
// swagger:model MessageResponse
type MessageResponse struct {
	// Message shown to the operator
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// logError logs a failed request under its request id.
func logError(r *http.Request, msg string, keysAndValues ...any) {
	kv := append([]any{"request_id", middlewares.GetRequestIDFromContext(r.Context())}, keysAndValues...)
	logger.Log.Errorw(msg, kv...)
}

// CookieOptions controls the session cookie the auth handlers set.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     jwt.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
