package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sbilibin2017/dtc-admin/internal/jwt"
	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/services"
)

//go:generate mockgen -source=profile_update.go -destination=profile_update_mock.go -package=handlers

// ProfileUpdater edits the status and notes of a profile.
type ProfileUpdater interface {
	Update(ctx context.Context, id int64, status models.ProfileStatus, notes, actor string) error
}

// UpdateProfileRequest is the body of the "Edit DTC Profile" form
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	// New status
	// required: true
	// default: flagged_for_removal
	Status string `json:"status"`

	// Free text notes, replaces the current notes
	Notes string `json:"notes"`
}

// NewUpdateProfileHandler returns an HTTP handler for editing a profile.
// @Summary Update profile
// @Description Change status and notes. Username and scraped details are read-only
// @Tags dtc-profiles
// @Accept json
// @Produce json
// @Param id path int true "Profile id"
// @Param updateProfileRequest body handlers.UpdateProfileRequest true "Update Profile Request"
// @Success 200 {object} handlers.MessageResponse "Profile updated"
// @Failure 400 {object} handlers.ErrorResponse "Validation error"
// @Failure 404 {object} handlers.ErrorResponse "Profile not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dtc-profiles/{id} [patch]
// @Security BearerAuth
func NewUpdateProfileHandler(svc ProfileUpdater, claimsGetter func(ctx context.Context) *jwt.Claims) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := profileIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, errInvalidProfileID)
			return
		}

		var req UpdateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		status, err := models.ParseStatus(req.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		actor := actorFromContext(r.Context(), claimsGetter)
		if err := svc.Update(r.Context(), id, status, req.Notes, actor); err != nil {
			switch {
			case isValidationError(err):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, services.ErrProfileNotFound):
				writeError(w, http.StatusNotFound, err.Error())
			default:
				logError(r, "failed to update profile", "id", id, "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, MessageResponse{Message: "Profile updated successfully"})
	}
}
