package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dtc-admin/internal/jwt"
	"github.com/stretchr/testify/require"
)

func requestBody(v interface{}) *bytes.Reader {
	switch b := v.(type) {
	case string:
		return bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		return bytes.NewReader(data)
	}
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func withIDParam(r *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func claimsOf(claims *jwt.Claims) func(ctx context.Context) *jwt.Claims {
	return func(ctx context.Context) *jwt.Claims { return claims }
}

var testOperator = &jwt.Claims{UserID: uuid.New(), Email: "ops@example.com", Purpose: jwt.PurposeSession}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
