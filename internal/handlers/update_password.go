package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dtc-admin/internal/jwt"
	"github.com/sbilibin2017/dtc-admin/internal/services"
)

//go:generate mockgen -source=update_password.go -destination=update_password_mock.go -package=handlers

// PasswordUpdater sets a new password for an operator.
type PasswordUpdater interface {
	UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error
}

// UpdatePasswordRequest represents the JSON body for a password change
// swagger:model UpdatePasswordRequest
type UpdatePasswordRequest struct {
	// New password, at least 6 characters
	// required: true
	Password string `json:"password"`

	// Repeat of the new password
	ConfirmPassword string `json:"confirm_password"`
}

// NewUpdatePasswordHandler returns an HTTP handler for changing the password.
// Accepts both session and recovery tokens; a recovery session ends once
// the password is changed.
// @Summary Update password
// @Description Set a new password for the signed-in or recovering operator
// @Tags auth
// @Accept json
// @Produce json
// @Param updatePasswordRequest body handlers.UpdatePasswordRequest true "Update Password Request"
// @Success 200 {object} handlers.MessageResponse "Password updated"
// @Failure 400 {object} handlers.ErrorResponse "Invalid password"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /auth/update-password [post]
// @Security BearerAuth
func NewUpdatePasswordHandler(svc PasswordUpdater, claimsGetter func(ctx context.Context) *jwt.Claims, cookies CookieOptions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := claimsGetter(r.Context())
		if claims == nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		var req UpdatePasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
			writeError(w, http.StatusBadRequest, "Passwords do not match")
			return
		}

		err := svc.UpdatePassword(r.Context(), claims.UserID, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPasswordTooShort):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, services.ErrUserDoesNotExist):
				writeError(w, http.StatusUnauthorized, "Unauthorized")
			default:
				logError(r, "internal server error", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		if claims.Purpose == jwt.PurposeRecovery {
			clearSessionCookie(w, cookies)
		}
		writeJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
	}
}
