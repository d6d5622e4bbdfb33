package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/dtc-admin/internal/services"
	"github.com/stretchr/testify/assert"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRegisterer(ctrl)

	tests := []struct {
		name          string
		inputBody     interface{}
		mockSetup     func()
		expectedCode  int
		expectedError string
	}{
		{
			name:      "success",
			inputBody: RegisterRequest{Email: "ops@example.com", Password: "pass123"},
			mockSetup: func() {
				mockSvc.EXPECT().Register(gomock.Any(), "ops@example.com", "pass123").Return(nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "invalid JSON",
			inputBody:     "{invalid json}",
			mockSetup:     func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name:      "short password",
			inputBody: RegisterRequest{Email: "ops@example.com", Password: "1"},
			mockSetup: func() {
				mockSvc.EXPECT().Register(gomock.Any(), "ops@example.com", "1").Return(services.ErrPasswordTooShort)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: services.ErrPasswordTooShort.Error(),
		},
		{
			name:      "user exists",
			inputBody: RegisterRequest{Email: "ops@example.com", Password: "pass123"},
			mockSetup: func() {
				mockSvc.EXPECT().Register(gomock.Any(), "ops@example.com", "pass123").Return(services.ErrUserAlreadyExists)
			},
			expectedCode:  http.StatusConflict,
			expectedError: services.ErrUserAlreadyExists.Error(),
		},
		{
			name:      "internal error",
			inputBody: RegisterRequest{Email: "ops@example.com", Password: "pass123"},
			mockSetup: func() {
				mockSvc.EXPECT().Register(gomock.Any(), "ops@example.com", "pass123").Return(errors.New("db down"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", requestBody(tt.inputBody))
			w := httptest.NewRecorder()

			NewRegisterHandler(mockSvc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, w))
			}
		})
	}
}
