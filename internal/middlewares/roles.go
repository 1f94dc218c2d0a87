package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/TechsCEO/huma-tour/internal/logger"
	"github.com/TechsCEO/huma-tour/internal/models"
)

// RequireRoles returns a middleware that authorizes the authenticated
// principal by role. An empty role set means any authenticated user may pass.
// It must run after AuthMiddleware.
func RequireRoles(allowed ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeJSONError(w, http.StatusUnauthorized, "Missing or invalid Authorization header")
				return
			}

			if len(allowed) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			if claims.Role == "" {
				logger.Log.Errorw("authorization failed", "reason", "missing role on token payload", "user_id", claims.UserID)
				writeJSONError(w, http.StatusForbidden, "Missing role on token payload")
				return
			}

			for _, role := range allowed {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			names := make([]string, len(allowed))
			for i, role := range allowed {
				names[i] = role.String()
			}
			logger.Log.Errorw("authorization failed",
				"role", claims.Role,
				"allowed", names,
				"user_id", claims.UserID,
			)
			writeJSONError(w, http.StatusForbidden,
				fmt.Sprintf("Access denied. Only %q can make this request.", strings.Join(names, ", ")))
		})
	}
}
