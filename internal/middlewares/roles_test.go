package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/TechsCEO/huma-tour/internal/jwt"
	"github.com/TechsCEO/huma-tour/internal/models"
)

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name             string
		claims           *jwt.Claims
		allowed          []models.Role
		expectedStatus   int
		expectNextCalled bool
		expectBody       string
	}{
		{
			name:           "unauthenticated request",
			claims:         nil,
			allowed:        []models.Role{models.RoleAdmin},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:             "empty role set passes any authenticated user",
			claims:           &jwt.Claims{UserID: "u1", Role: models.RoleUser},
			allowed:          nil,
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
		{
			name:           "missing role on claims",
			claims:         &jwt.Claims{UserID: "u1"},
			allowed:        []models.Role{models.RoleAdmin},
			expectedStatus: http.StatusForbidden,
			expectBody:     "Missing role on token payload",
		},
		{
			name:           "role not permitted",
			claims:         &jwt.Claims{UserID: "u1", Role: models.RoleUser},
			allowed:        []models.Role{models.RoleAdmin, models.RoleLeadGuide},
			expectedStatus: http.StatusForbidden,
			expectBody:     `Only "admin, lead-guide" can make this request`,
		},
		{
			name:             "role permitted",
			claims:           &jwt.Claims{UserID: "u1", Role: models.RoleLeadGuide},
			allowed:          []models.Role{models.RoleAdmin, models.RoleLeadGuide},
			expectedStatus:   http.StatusOK,
			expectNextCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireRoles(tt.allowed...)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(ContextWithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNextCalled, nextCalled)
			if tt.expectBody != "" {
				assert.Contains(t, rec.Body.String(), tt.expectBody)
			}
		})
	}
}
