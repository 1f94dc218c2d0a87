package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/TechsCEO/huma-tour/internal/jwt"
	"github.com/TechsCEO/huma-tour/internal/middlewares"
	"github.com/TechsCEO/huma-tour/internal/models"
	"github.com/TechsCEO/huma-tour/internal/services"
)

func TestUpdateMyPasswordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPasswordUpdater(ctrl)

	userID := primitive.NewObjectID().Hex()
	user := &models.User{Email: "john@example.com", Role: models.RoleUser}
	claims := &jwt.Claims{UserID: userID, Role: models.RoleUser}

	tests := []struct {
		name         string
		claims       *jwt.Claims
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
	}{
		{
			name:   "success",
			claims: claims,
			inputBody: UpdateMyPasswordRequest{
				CurrentPassword: "old-secret",
				Password:        "new-secret-123",
				PasswordConfirm: "new-secret-123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					UpdateMyPassword(gomock.Any(), userID, "old-secret", "new-secret-123").
					Return("FRESH_TOKEN", user, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "wrong current password",
			claims: claims,
			inputBody: UpdateMyPasswordRequest{
				CurrentPassword: "not-it",
				Password:        "new-secret-123",
				PasswordConfirm: "new-secret-123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					UpdateMyPassword(gomock.Any(), userID, "not-it", "new-secret-123").
					Return("", nil, services.ErrWrongCurrentPassword)
			},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name:   "same password",
			claims: claims,
			inputBody: UpdateMyPasswordRequest{
				CurrentPassword: "old-secret",
				Password:        "old-secret-123",
				PasswordConfirm: "old-secret-123",
			},
			mockSetup: func() {
				mockSvc.EXPECT().
					UpdateMyPassword(gomock.Any(), userID, "old-secret", "old-secret-123").
					Return("", nil, services.ErrSamePassword)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "no claims",
			claims: nil,
			inputBody: UpdateMyPasswordRequest{
				CurrentPassword: "old-secret",
				Password:        "new-secret-123",
				PasswordConfirm: "new-secret-123",
			},
			mockSetup:    func() {},
			expectedCode: http.StatusUnauthorized,
		},
	}

	t.Run("accepts currentPassword wire field", func(t *testing.T) {
		mockSvc.EXPECT().
			UpdateMyPassword(gomock.Any(), userID, "Old12345!", "New12345!").
			Return("FRESH_TOKEN", user, nil)

		body := `{"currentPassword":"Old12345!","password":"New12345!","passwordConfirm":"New12345!"}`
		req := httptest.NewRequest(http.MethodPatch, "/auth/updateMyPassword", bytes.NewReader([]byte(body)))
		req = req.WithContext(middlewares.ContextWithClaims(req.Context(), claims))

		rec := httptest.NewRecorder()
		NewUpdateMyPasswordHandler(mockSvc, 90)(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			bodyBytes, _ := json.Marshal(tt.inputBody)
			req := httptest.NewRequest(http.MethodPatch, "/auth/updateMyPassword", bytes.NewReader(bodyBytes))
			if tt.claims != nil {
				req = req.WithContext(middlewares.ContextWithClaims(req.Context(), tt.claims))
			}

			rec := httptest.NewRecorder()
			NewUpdateMyPasswordHandler(mockSvc, 90)(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)

			if tt.expectedCode == http.StatusOK {
				cookies := rec.Result().Cookies()
				if assert.Len(t, cookies, 1) {
					assert.Equal(t, "FRESH_TOKEN", cookies[0].Value)
				}
			}
		})
	}
}
