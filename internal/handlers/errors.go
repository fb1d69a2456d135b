package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"kiwilearn/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	writeJSON(w, status, map[string]string{"error": userMsg})
}

// serviceError maps the service layer's sentinel errors onto HTTP
// responses. The error's own message becomes the body for client
// mistakes; internal failures get a generic message.
func serviceError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error(), logMsg, nil)
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrNotReady):
		respondWithError(w, http.StatusBadRequest, err.Error(), logMsg, nil)
	case errors.Is(err, models.ErrForbidden):
		respondWithError(w, http.StatusForbidden, err.Error(), logMsg, nil)
	case errors.Is(err, models.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error(), logMsg, nil)
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error", logMsg, err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", "", nil)
		return false
	}
	return true
}
