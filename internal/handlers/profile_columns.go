package handlers

import (
	"net/http"

	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/query"
)

// StatusOption is one entry of the status select and filter.
// swagger:model StatusOption
type StatusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// ColumnsResponse describes the profile table layout and its filters.
// swagger:model ColumnsResponse
type ColumnsResponse struct {
	Columns         []query.Column `json:"columns"`
	Statuses        []StatusOption `json:"statuses"`
	PageSizeOptions []int          `json:"page_size_options"`
	DefaultPageSize int            `json:"default_page_size"`
}

// NewColumnsHandler returns an HTTP handler describing the table columns.
// @Summary Table configuration
// @Description Columns with their filter operators, status options and page sizes
// @Tags dtc-profiles
// @Produce json
// @Success 200 {object} handlers.ColumnsResponse "Table configuration"
// @Router /dtc-profiles/columns [get]
// @Security BearerAuth
func NewColumnsHandler() http.HandlerFunc {
	resp := ColumnsResponse{
		Columns:         query.Columns,
		Statuses:        make([]StatusOption, 0, len(models.Statuses)),
		PageSizeOptions: query.PageSizeOptions,
		DefaultPageSize: query.DefaultPageSize,
	}
	for _, s := range models.Statuses {
		resp.Statuses = append(resp.Statuses, StatusOption{
			Value: string(s),
			Label: s.Label(),
			Color: s.Color(),
		})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, resp)
	}
}
