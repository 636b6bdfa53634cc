package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yatraone/transit-api/internal/application/notification"
	"github.com/yatraone/transit-api/internal/domain"
	jwtinfra "github.com/yatraone/transit-api/internal/infrastructure/jwt"
	"github.com/yatraone/transit-api/internal/transport/http/middleware"
)

// NotificationListEnvelope is the body of GET /api/notifications.
type NotificationListEnvelope struct {
	Success       bool                  `json:"success"`
	Notifications []domain.Notification `json:"notifications"`
	Count         int                   `json:"count"`
}

// NotificationEnvelope wraps a single updated notification.
type NotificationEnvelope struct {
	Success      bool                 `json:"success"`
	Notification *domain.Notification `json:"notification"`
}

// NotificationHandler serves the in-app inbox of the authenticated rider.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// authenticated returns the caller's claims or writes 401 and reports false.
func authenticated(w http.ResponseWriter, r *http.Request) (*jwtinfra.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.Subject == "" {
		writeAppError(w, r, errUnauthenticated)
		return nil, false
	}
	return claims, true
}

func (h *NotificationHandler) ListUnread(w http.ResponseWriter, r *http.Request) {
	claims, ok := authenticated(w, r)
	if !ok {
		return
	}
	items, err := h.svc.ListUnread(r.Context(), claims.Subject)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Notification{}
	}
	writeJSON(w, http.StatusOK, NotificationListEnvelope{Success: true, Notifications: items, Count: len(items)})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := authenticated(w, r)
	if !ok {
		return
	}
	n, err := h.svc.MarkAsRead(r.Context(), chi.URLParam(r, "id"), claims.Subject)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationEnvelope{Success: true, Notification: n})
}
