package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/query"
	"github.com/sbilibin2017/dtc-admin/internal/services"
)

//go:generate mockgen -source=profile_list.go -destination=profile_list_mock.go -package=handlers

// ProfileLister returns pages of the profile table.
type ProfileLister interface {
	List(ctx context.Context, params query.Params) (*services.ProfilePage, error)
}

// ProfileView is a profile row as the table renders it.
// swagger:model ProfileView
type ProfileView struct {
	models.DtcProfile

	// Human readable status
	// default: Pending Review
	StatusLabel string `json:"status_label"`

	// Tag colour of the status
	// default: processing
	StatusColor string `json:"status_color"`
}

func newProfileView(p models.DtcProfile) ProfileView {
	return ProfileView{
		DtcProfile:  p,
		StatusLabel: p.Status.Label(),
		StatusColor: p.Status.Color(),
	}
}

// AppliedFilter is an active filter with the text shown in its column header.
// swagger:model AppliedFilter
type AppliedFilter struct {
	query.Filter

	// Header badge text
	// default: Contains: shop
	Label string `json:"label"`
}

// ProfileListResponse is one page of the profile table.
// swagger:model ProfileListResponse
type ProfileListResponse struct {
	Data           []ProfileView   `json:"data"`
	Total          int             `json:"total"`
	Current        int             `json:"current"`
	PageSize       int             `json:"page_size"`
	PageCount      int             `json:"page_count"`
	Sorters        []query.Sorter  `json:"sorters"`
	AppliedFilters []AppliedFilter `json:"applied_filters"`
}

// NewListProfilesHandler returns an HTTP handler serving the profile table.
// @Summary List profiles
// @Description Paged, filtered and sorted profiles joined with their latest scraped details
// @Tags dtc-profiles
// @Produce json
// @Param filter query []string false "AIP-160 expression, e.g. posts_count < 10 AND followers_count >= 1000; repeatable" collectionFormat(multi)
// @Param filter_mode query string false "How repeated filters combine" Enums(merge, replace) default(merge)
// @Param order_by query string false "AIP-132 ordering, e.g. followers_count desc, id"
// @Param current query int false "Page number, 1-based" default(1)
// @Param page_size query int false "Rows per page, at most 100" default(10)
// @Success 200 {object} handlers.ProfileListResponse "Profiles"
// @Failure 400 {object} handlers.ErrorResponse "Invalid filter or sort"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /dtc-profiles [get]
// @Security BearerAuth
func NewListProfilesHandler(svc ProfileLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := query.Parse(r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		page, err := svc.List(r.Context(), params)
		if err != nil {
			if errors.Is(err, query.ErrInvalidQuery) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			logError(r, "failed to list profiles", "error", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		resp := ProfileListResponse{
			Data:           make([]ProfileView, 0, len(page.Profiles)),
			Total:          page.Total,
			Current:        params.Pagination.Current,
			PageSize:       params.Pagination.PageSize,
			PageCount:      params.Pagination.PageCount(page.Total),
			Sorters:        params.Sorters,
			AppliedFilters: make([]AppliedFilter, 0, len(params.Filters)),
		}
		for _, p := range page.Profiles {
			resp.Data = append(resp.Data, newProfileView(p))
		}
		for _, f := range params.Filters {
			resp.AppliedFilters = append(resp.AppliedFilters, AppliedFilter{Filter: f, Label: query.Describe(f)})
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
