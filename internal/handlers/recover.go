package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sbilibin2017/dtc-admin/internal/services"
)

//go:generate mockgen -source=recover.go -destination=recover_mock.go -package=handlers

// Recoverer exchanges a recovery link token for a recovery session.
type Recoverer interface {
	Recover(ctx context.Context, token string) (string, error)
}

const (
	UpdatePasswordPagePath       = "/update-password"
	ForgotPasswordInvalidLinkURL = "/forgot-password?error=invalid_link"
)

// NewRecoverHandler returns the handler the recovery link in the email points to.
// @Summary Open recovery link
// @Description Consume a recovery token, set a recovery session and redirect to the update password page
// @Tags auth
// @Param token query string true "Recovery token"
// @Success 303 "Redirect to /update-password"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /auth/recover [get]
func NewRecoverHandler(svc Recoverer, recoveryExp time.Duration, cookies CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := svc.Recover(r.Context(), r.URL.Query().Get("token"))
		if err != nil {
			if errors.Is(err, services.ErrInvalidRecoveryToken) {
				http.Redirect(w, r, ForgotPasswordInvalidLinkURL, http.StatusSeeOther)
				return
			}
			logError(r, "internal server error", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		setSessionCookie(w, token, recoveryExp, cookies)
		http.Redirect(w, r, UpdatePasswordPagePath, http.StatusSeeOther)
	}
}
