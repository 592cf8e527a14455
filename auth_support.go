package main

import (
	"net/http"
	"strings"
	"time"
)

const sessionTTL = 30 * 24 * time.Hour

// identityFromRequest extracts the authenticated identity from the JWT
// cookie. The X-PML-User header fallback only exists for local
// development and must be switched on explicitly.
func (a *App) identityFromRequest(r *http.Request) string {
	if c, err := r.Cookie(a.cfg.CookieName); err == nil && c.Value != "" {
		if claims, err := parseToken([]byte(a.cfg.JWTSecret), c.Value); err == nil && claims.UserID != "" {
			return claims.UserID
		}
	}
	if a.cfg.DevHeaderAuth {
		if v := strings.TrimSpace(r.Header.Get("X-PML-User")); v != "" {
			return v
		}
	}
	return ""
}

func (a *App) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cfg.CookieSecure,
		Expires:  time.Now().Add(sessionTTL),
	})
}

func (a *App) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.cfg.CookieSecure,
		MaxAge:   -1,
	})
}
