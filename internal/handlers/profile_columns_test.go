package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsHandler(t *testing.T) {
	w := httptest.NewRecorder()
	NewColumnsHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dtc-profiles/columns", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp ColumnsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "id", resp.Columns[0].Key)
	assert.Equal(t, []int{10, 25, 50, 100}, resp.PageSizeOptions)
	assert.Equal(t, 10, resp.DefaultPageSize)
	require.Len(t, resp.Statuses, 4)
	assert.Equal(t, StatusOption{Value: "active", Label: "Active", Color: "success"}, resp.Statuses[0])
}
