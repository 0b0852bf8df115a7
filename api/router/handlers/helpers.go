package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"pickle/core"
	"pickle/database"
	"pickle/logger"
	"pickle/models"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Message: message})
}

// writeServiceError maps the gateway error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, core.ErrNoWorkspace):
		writeError(w, http.StatusForbidden, "No workspace membership")
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, core.ErrInvalidRecord):
		writeError(w, http.StatusInternalServerError, "Record failed integrity check")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
