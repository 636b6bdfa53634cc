package handler

import (
	"net/http"

	"github.com/yatraone/transit-api/internal/application/account"
	"github.com/yatraone/transit-api/internal/config"
	"github.com/yatraone/transit-api/internal/pkg/validate"
)

// AccountHandler handles OTP-gated account changes.
type AccountHandler struct {
	svc     account.Service
	cookies config.CookieConfig
}

func NewAccountHandler(svc account.Service, cookies config.CookieConfig) *AccountHandler {
	return &AccountHandler{svc: svc, cookies: cookies}
}

func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req account.ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := h.svc.ResetPassword(r.Context(), req); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Password reset successfully."})
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims, ok := authenticated(w, r)
	if !ok {
		return
	}
	var req account.DeleteAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeAppError(w, r, err)
		return
	}
	who := account.Principal{UserID: claims.Subject, Email: claims.Email, JTI: claims.ID}
	if err := h.svc.DeleteAccount(r.Context(), who, req); err != nil {
		writeAppError(w, r, err)
		return
	}
	clearSessionCookies(w, h.cookies)
	writeJSON(w, http.StatusOK, MessageEnvelope{Success: true, Message: "Account deleted."})
}
