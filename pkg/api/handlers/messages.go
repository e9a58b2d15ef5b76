package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"birdfeed/pkg/auth"
	"birdfeed/pkg/validation"
)

// SendMessage handles POST /v1/messages/{uid}.
func (h *Handlers) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateMessageText(req.Text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg, err := h.svc.Messages.Send(r.Context(), auth.Actor(r), mux.Vars(r)["uid"], req.Text)
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// MessageThread handles GET /v1/messages/{uid}.
func (h *Handlers) MessageThread(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.svc.Messages.Thread(r.Context(), auth.Actor(r), mux.Vars(r)["uid"])
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Conversations handles GET /v1/conversations.
func (h *Handlers) Conversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.svc.Messages.Conversations(r.Context(), auth.Actor(r))
	if err != nil {
		serviceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}
