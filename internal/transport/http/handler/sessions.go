package handler

import (
	"net/http"

	"github.com/yatraone/transit-api/internal/application/session"
	"github.com/yatraone/transit-api/internal/config"
	"github.com/yatraone/transit-api/internal/domain"
	"github.com/yatraone/transit-api/internal/pkg/validate"
	"github.com/yatraone/transit-api/internal/transport/http/middleware"
)

var errUnauthenticated = domain.NewError(domain.CodeTokenInvalid, "Authentication required.")

// SessionHandler handles login, registration and the refresh-token cookie flow.
type SessionHandler struct {
	svc     session.Service
	cookies config.CookieConfig
}

func NewSessionHandler(svc session.Service, cookies config.CookieConfig) *SessionHandler {
	return &SessionHandler{svc: svc, cookies: cookies}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeAppError(w, r, err)
		return
	}
	result, err := h.svc.Login(r.Context(), req, session.Meta{IP: middleware.ClientIP(r)})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	setSessionCookies(w, h.cookies, result.RefreshToken, result.CSRFToken)
	writeJSON(w, http.StatusOK, AuthEnvelope{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	})
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeAppError(w, r, err)
		return
	}
	result, err := h.svc.Register(r.Context(), req, session.Meta{IP: middleware.ClientIP(r)})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	setSessionCookies(w, h.cookies, result.RefreshToken, result.CSRFToken)
	writeJSON(w, http.StatusCreated, AuthEnvelope{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	})
}

// Refresh rotates the session. The refresh token and CSRF token come from
// cookies; the CSRF token must be echoed in the X-CSRF-Token header.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Refresh(r.Context(),
		cookieValue(r, refreshCookie),
		cookieValue(r, csrfCookie),
		r.Header.Get(csrfHeader),
	)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	setSessionCookies(w, h.cookies, result.RefreshToken, result.CSRFToken)
	writeJSON(w, http.StatusOK, AuthEnvelope{AccessToken: result.AccessToken})
}

// Logout always succeeds; an unreadable body or token just means nothing to revoke.
// The token comes from the body only: the refresh cookie is scoped to the
// refresh endpoint and never reaches this path.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if r.ContentLength != 0 {
		_ = decodeJSON(w, r, &req)
	}
	_ = h.svc.Logout(r.Context(), req.RefreshToken)
	clearSessionCookies(w, h.cookies)
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Logged out."})
}
