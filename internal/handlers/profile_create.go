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

//go:generate mockgen -source=profile_create.go -destination=profile_create_mock.go -package=handlers

// ProfileCreator adds profiles to track.
type ProfileCreator interface {
	Create(ctx context.Context, username string, status models.ProfileStatus, notes, actor string) (int64, error)
}

// CreateProfileRequest is the body of the "Add New DTC Profile" form
// swagger:model CreateProfileRequest
type CreateProfileRequest struct {
	// Instagram username, letters, numbers, dots and underscores
	// required: true
	// default: brand.shop
	Username string `json:"username"`

	// Initial status, active when empty
	// default: active
	Status string `json:"status"`

	// Free text notes
	Notes string `json:"notes"`
}

// CreateProfileResponse is returned after a profile is added
// swagger:model CreateProfileResponse
type CreateProfileResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

func isValidationError(err error) bool {
	return errors.Is(err, models.ErrUsernameRequired) ||
		errors.Is(err, models.ErrUsernameInvalid) ||
		errors.Is(err, models.ErrStatusRequired) ||
		errors.Is(err, models.ErrStatusInvalid)
}

func actorFromContext(ctx context.Context, claimsGetter func(ctx context.Context) *jwt.Claims) string {
	if claims := claimsGetter(ctx); claims != nil {
		return claims.Email
	}
	return ""
}

// NewCreateProfileHandler returns an HTTP handler for adding a profile.
// @Summary Create profile
// @Description Start tracking a profile by username
// @Tags dtc-profiles
// @Accept json
// @Produce json
// @Param createProfileRequest body handlers.CreateProfileRequest true "Create Profile Request"
// @Success 201 {object} handlers.CreateProfileResponse "Profile created"
// @Failure 400 {object} handlers.ErrorResponse "Validation error"
// @Failure 409 {object} handlers.ErrorResponse "Profile already exists"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dtc-profiles [post]
// @Security BearerAuth
func NewCreateProfileHandler(svc ProfileCreator, claimsGetter func(ctx context.Context) *jwt.Claims) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		// an empty status is left for the service to default
		var status models.ProfileStatus
		if req.Status != "" {
			parsed, err := models.ParseStatus(req.Status)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			status = parsed
		}

		actor := actorFromContext(r.Context(), claimsGetter)
		id, err := svc.Create(r.Context(), req.Username, status, req.Notes, actor)
		if err != nil {
			switch {
			case isValidationError(err):
				writeError(w, http.StatusBadRequest, err.Error())
			case errors.Is(err, services.ErrProfileAlreadyExists):
				writeError(w, http.StatusConflict, err.Error())
			default:
				logError(r, "failed to create profile", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, CreateProfileResponse{
			ID:      id,
			Message: "Profile created successfully",
		})
	}
}
