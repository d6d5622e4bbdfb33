package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
	"github.com/sbilibin2017/dtc-admin/internal/middlewares"
	"github.com/sbilibin2017/dtc-admin/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestForgotPasswordHandler(t *testing.T) {
	tests := []struct {
		name         string
		inputBody    interface{}
		svcErr       error
		callsSvc     bool
		expectedCode int
	}{
		{name: "known or unknown email", inputBody: ForgotPasswordRequest{Email: "ops@example.com"}, callsSvc: true, expectedCode: http.StatusOK},
		{name: "invalid email", inputBody: ForgotPasswordRequest{Email: "x"}, svcErr: services.ErrInvalidEmail, callsSvc: true, expectedCode: http.StatusOK},
		{name: "mailer down", inputBody: ForgotPasswordRequest{Email: "ops@example.com"}, svcErr: errors.New("kafka down"), callsSvc: true, expectedCode: http.StatusOK},
		{name: "invalid JSON", inputBody: "{", expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockSvc := NewMockPasswordForgetter(ctrl)
			if tt.callsSvc {
				mockSvc.EXPECT().ForgotPassword(gomock.Any(), gomock.Any()).Return(tt.svcErr)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", requestBody(tt.inputBody))
			w := httptest.NewRecorder()

			NewForgotPasswordHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var resp MessageResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, forgotPasswordMessage, resp.Message)
			}
		})
	}
}

func TestForgotPasswordHandler_LogsFailureWithRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	prev := logger.Log
	logger.Log = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Log = prev })

	ctrl := gomock.NewController(t)
	mockSvc := NewMockPasswordForgetter(ctrl)
	mockSvc.EXPECT().ForgotPassword(gomock.Any(), "ops@example.com").Return(errors.New("kafka down"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", requestBody(ForgotPasswordRequest{Email: "ops@example.com"}))
	req = req.WithContext(middlewares.WithRequestID(req.Context(), "req-7"))
	w := httptest.NewRecorder()

	NewForgotPasswordHandler(mockSvc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "kafka down", entries[0].ContextMap()["error"])
}
