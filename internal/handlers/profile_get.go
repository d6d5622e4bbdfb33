package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/services"
)

//go:generate mockgen -source=profile_get.go -destination=profile_get_mock.go -package=handlers

// ProfileGetter returns one profile.
type ProfileGetter interface {
	Get(ctx context.Context, id int64) (*models.DtcProfile, error)
}

const errInvalidProfileID = "Invalid profile id"

func profileIDParam(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// NewGetProfileHandler returns an HTTP handler for a single profile.
// @Summary Get profile
// @Description Profile joined with its latest scraped details, as loaded by the edit form
// @Tags dtc-profiles
// @Produce json
// @Param id path int true "Profile id"
// @Success 200 {object} handlers.ProfileView "Profile"
// @Failure 400 {object} handlers.ErrorResponse "Invalid profile id"
// @Failure 404 {object} handlers.ErrorResponse "Profile not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dtc-profiles/{id} [get]
// @Security BearerAuth
func NewGetProfileHandler(svc ProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := profileIDParam(r)
		if !ok {
			writeError(w, http.StatusBadRequest, errInvalidProfileID)
			return
		}

		profile, err := svc.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrProfileNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			logError(r, "failed to get profile", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, newProfileView(*profile))
	}
}
