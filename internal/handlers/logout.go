package handlers

import "net/http"

// LogoutResponse represents a successful logout
// swagger:model LogoutResponse
type LogoutResponse struct {
	// Status
	// default: success
	Status string `json:"status"`
}

// NewLogoutHandler returns an HTTP handler for logging out. The session
// cookie is replaced with a short-lived placeholder; no server-side state
// is touched.
// @Summary Log out
// @Description Expire the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} handlers.LogoutResponse "Logged out"
// @Router /auth/logout [get]
func NewLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expireSessionCookie(w)
		writeJSON(w, http.StatusOK, LogoutResponse{Status: "success"})
	}
}
