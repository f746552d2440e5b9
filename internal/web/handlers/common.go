package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/faceattend/faceattend/internal/attendance"
	"github.com/faceattend/faceattend/internal/credential"
	"github.com/faceattend/faceattend/internal/enroll"
	"github.com/faceattend/faceattend/internal/gallery"
)

// errInvalidRequestBody is a shared error message for invalid JSON request bodies.
const errInvalidRequestBody = "invalid request body"

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps the error taxonomy onto HTTP statuses. Every kind
// gets its own status so callers can tell a rejected request from a broken
// store.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gallery.ErrInvalidName),
		errors.Is(err, gallery.ErrDimensionMismatch),
		errors.Is(err, enroll.ErrNoVectors):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, enroll.ErrSampleLimit):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, credential.ErrRejected):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, gallery.ErrCorrupt),
		errors.Is(err, credential.ErrCorrupt),
		errors.Is(err, attendance.ErrCorrupt):
		respondError(w, http.StatusInternalServerError, "storage corrupt")
	default:
		respondError(w, http.StatusInternalServerError, "storage unavailable")
	}
}

// HealthCheck handles the health check endpoint.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}
