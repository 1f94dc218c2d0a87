package handlers

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie that mirrors the bearer token for
// browser clients.
const SessionCookieName = "huma-jwt"

// setSessionCookie attaches the session token as an http-only cookie.
func setSessionCookie(w http.ResponseWriter, token string, expiresDays int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(expiresDays) * 24 * time.Hour),
		HttpOnly: true,
	})
}

// expireSessionCookie overwrites the session cookie with a short-lived
// placeholder. Logout is stateless: the token itself stays valid until
// it expires.
func expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "loggedout",
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Second),
		HttpOnly: true,
	})
}
