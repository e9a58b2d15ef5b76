package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"birdfeed/pkg/logger"
	"birdfeed/pkg/social"
	"birdfeed/pkg/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response_encode_failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serviceError maps engine errors onto HTTP statuses: dangling references
// are 404, domain rejections 4xx, everything else 500.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, social.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, social.ErrSelfFollow), errors.Is(err, social.ErrSelfMessage):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("request_failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
