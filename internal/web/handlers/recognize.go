package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/faceattend/faceattend/internal/attendance"
	"github.com/faceattend/faceattend/internal/embedding"
	"github.com/faceattend/faceattend/internal/gallery"
	"github.com/faceattend/faceattend/internal/matcher"
)

// maxImageBytes caps uploaded face images at 10 MiB.
const maxImageBytes = 10 << 20

// RecognizeHandler identifies embedding vectors against the gallery and
// marks attendance on accepted matches.
type RecognizeHandler struct {
	store    gallery.Store
	match    matcher.Matcher
	journal  *attendance.Journal
	embedder embedding.Embedder // nil when no embedding server is configured
}

// NewRecognizeHandler creates a recognize handler. embedder may be nil, in
// which case the image endpoint reports that it is not configured.
func NewRecognizeHandler(store gallery.Store, match matcher.Matcher, journal *attendance.Journal, embedder embedding.Embedder) *RecognizeHandler {
	return &RecognizeHandler{
		store:    store,
		match:    match,
		journal:  journal,
		embedder: embedder,
	}
}

// RecognizeRequest carries the query embedding.
type RecognizeRequest struct {
	Vector gallery.Vector `json:"vector"`
}

// RecognizeResponse reports the best match. Distance is the best distance
// found even when the match was rejected as Unknown.
type RecognizeResponse struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
	Known    bool    `json:"known"`
	Attended bool    `json:"attended"`
}

// Recognize handles POST /recognize with a raw embedding vector.
func (h *RecognizeHandler) Recognize(w http.ResponseWriter, r *http.Request) {
	var req RecognizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}
	if len(req.Vector) == 0 {
		respondError(w, http.StatusBadRequest, "vector is required")
		return
	}

	h.recognize(w, r, req.Vector)
}

// RecognizeImage handles POST /recognize/image with a multipart face image,
// delegating detection and embedding to the external embedding server.
func (h *RecognizeHandler) RecognizeImage(w http.ResponseWriter, r *http.Request) {
	if h.embedder == nil {
		respondError(w, http.StatusServiceUnavailable, "no embedding server configured")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// Read one byte past the limit so an oversize upload is detectable
	// instead of silently truncated.
	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		respondError(w, http.StatusBadRequest, "reading image")
		return
	}
	if len(image) > maxImageBytes {
		respondError(w, http.StatusBadRequest, "image too large")
		return
	}

	vector, err := h.embedder.EmbedImage(r.Context(), image)
	if errors.Is(err, embedding.ErrNoFace) {
		respondError(w, http.StatusUnprocessableEntity, "no face detected")
		return
	}
	if err != nil {
		log.Printf("embedding request failed: %v", err)
		respondError(w, http.StatusBadGateway, "embedding server failed")
		return
	}

	h.recognize(w, r, vector)
}

func (h *RecognizeHandler) recognize(w http.ResponseWriter, r *http.Request, vector gallery.Vector) {
	g, err := h.store.Load(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	match, err := h.match.Recognize(vector, g)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	resp := RecognizeResponse{
		Name:     match.Name,
		Distance: match.Distance,
		Known:    match.Known(),
	}

	if match.Known() {
		_, created, err := h.journal.Mark(match.Name, time.Now())
		if err != nil {
			respondStoreError(w, err)
			return
		}
		resp.Attended = created
	}

	respondJSON(w, http.StatusOK, resp)
}
