package handler

import (
	"net/http"
	"strconv"

	"github.com/exchange-admin/internal/application/notification"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler lets support staff read a user's notification inbox.
type NotificationHandler struct {
	svc notification.Service
}

func NewNotificationHandler(svc notification.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// ListForUser handles GET /admin/users/{userId}/notifications?unread=true&limit=20.
func (h *NotificationHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	items, err := h.svc.ListForUser(r.Context(), chi.URLParam(r, "userId"), unread, limit)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DataEnvelope{Data: items})
}
