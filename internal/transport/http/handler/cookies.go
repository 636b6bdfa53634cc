package handler

import (
	"net/http"

	"github.com/yatraone/transit-api/internal/config"
)

const (
	refreshCookie = "refresh_token"
	csrfCookie    = "csrf_token"
	csrfHeader    = "X-CSRF-Token"
)

// setSessionCookies writes the refresh token (HttpOnly) and the CSRF token
// (readable by scripts so it can be echoed in the header).
func setSessionCookies(w http.ResponseWriter, cfg config.CookieConfig, refresh, csrf string) {
	maxAge := int(cfg.MaxAge.Seconds())
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refresh,
		Path:     cfg.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookie,
		Value:    csrf,
		Path:     cfg.Path,
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookies(w http.ResponseWriter, cfg config.CookieConfig) {
	for _, name := range []string{refreshCookie, csrfCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Path:     cfg.Path,
			MaxAge:   -1,
			HttpOnly: name == refreshCookie,
			Secure:   cfg.Secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
