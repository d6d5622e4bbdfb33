package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

//go:generate mockgen -source=forgot_password.go -destination=forgot_password_mock.go -package=handlers

// PasswordForgetter starts password recovery.
type PasswordForgetter interface {
	ForgotPassword(ctx context.Context, email string) error
}

// ForgotPasswordRequest represents the JSON body for a recovery request
// swagger:model ForgotPasswordRequest
type ForgotPasswordRequest struct {
	// Email of the account to recover
	// required: true
	// default: ops@example.com
	Email string `json:"email"`
}

const forgotPasswordMessage = "If an account exists for this email, a recovery link has been sent"

// NewForgotPasswordHandler returns an HTTP handler that mails a recovery link.
// Any email, malformed or unknown, gets the same 200 response; failures are
// only logged.
// @Summary Forgot password
// @Description Send a single-use recovery link. Responds 200 with the same message whether or not the account exists or the link could be sent
// @Tags auth
// @Accept json
// @Produce json
// @Param forgotPasswordRequest body handlers.ForgotPasswordRequest true "Forgot Password Request"
// @Success 200 {object} handlers.MessageResponse "Recovery requested"
// @Failure 400 {object} handlers.ErrorResponse "Body is not JSON"
// @Router /auth/forgot-password [post]
func NewForgotPasswordHandler(svc PasswordForgetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ForgotPasswordRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if err := svc.ForgotPassword(r.Context(), req.Email); err != nil {
			logError(r, "password recovery not started", "error", err)
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
	}
}
