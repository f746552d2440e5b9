package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/faceattend/faceattend/internal/credential"
)

// AuthHandler verifies and rotates the admin credential.
type AuthHandler struct {
	creds *credential.Manager
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(creds *credential.Manager) *AuthHandler {
	return &AuthHandler{creds: creds}
}

// VerifyRequest carries a password candidate.
type VerifyRequest struct {
	Password string `json:"password"`
}

// VerifyResponse reports only whether the candidate matched.
type VerifyResponse struct {
	OK bool `json:"ok"`
}

// Verify handles POST /auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}

	ok, err := h.creds.Verify(req.Password)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, VerifyResponse{OK: ok})
}

// RotateRequest carries the old and new secrets for a rotation.
type RotateRequest struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Rotate handles POST /auth/password. The old secret in the body is the
// re-authentication; a wrong old secret changes nothing.
func (h *AuthHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	var req RotateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if req.Old == "" || req.New == "" {
		respondError(w, http.StatusBadRequest, "old and new passwords are required")
		return
	}

	if err := h.creds.Rotate(req.Old, req.New); err != nil {
		if errors.Is(err, credential.ErrRejected) {
			respondError(w, http.StatusUnauthorized, "wrong password")
			return
		}
		respondStoreError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
