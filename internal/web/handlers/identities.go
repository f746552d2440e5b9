package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/faceattend/faceattend/internal/enroll"
	"github.com/faceattend/faceattend/internal/gallery"
)

// IdentitiesHandler lists enrolled identities and enrolls new samples.
type IdentitiesHandler struct {
	store   gallery.Store
	service *enroll.Service
}

// NewIdentitiesHandler creates an identities handler.
func NewIdentitiesHandler(store gallery.Store, service *enroll.Service) *IdentitiesHandler {
	return &IdentitiesHandler{store: store, service: service}
}

// IdentitySummary is one row of the identity listing.
type IdentitySummary struct {
	Name    string `json:"name"`
	Samples int    `json:"samples"`
}

// List handles GET /identities, in enrollment order.
func (h *IdentitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	g, err := h.store.Load(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	summaries := make([]IdentitySummary, 0, g.Identities())
	for _, name := range g.Names() {
		summaries = append(summaries, IdentitySummary{
			Name:    name,
			Samples: len(g.Samples(name)),
		})
	}
	respondJSON(w, http.StatusOK, summaries)
}

// EnrollRequest carries one enrollment: an identity name plus one or more
// embedding samples.
type EnrollRequest struct {
	Name    string           `json:"name"`
	Vectors []gallery.Vector `json:"vectors"`
}

// EnrollResponse reports the identity's state after enrollment.
type EnrollResponse struct {
	Name    string `json:"name"`
	Samples int    `json:"samples"`
}

// Enroll handles POST /identities. Samples append to any existing ones;
// enrollment never replaces.
func (h *IdentitiesHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	var req EnrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, errInvalidRequestBody)
		return
	}

	g, err := h.service.Enroll(r.Context(), req.Name, req.Vectors)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, EnrollResponse{
		Name:    req.Name,
		Samples: len(g.Samples(req.Name)),
	})
}
