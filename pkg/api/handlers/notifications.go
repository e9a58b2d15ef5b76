package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"birdfeed/pkg/auth"
)

// Notifications handles GET /v1/notifications for the acting user.
func (h *Handlers) Notifications(w http.ResponseWriter, r *http.Request) {
	notifs, err := h.svc.Notifier.List(r.Context(), auth.Actor(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifs)
}

// RemoveNotification handles DELETE /v1/notifications/{id}.
func (h *Handlers) RemoveNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notifier.Remove(r.Context(), auth.Actor(r), mux.Vars(r)["id"]); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// RemoveAllNotifications handles DELETE /v1/notifications.
func (h *Handlers) RemoveAllNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notifier.RemoveAll(r.Context(), auth.Actor(r)); err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
