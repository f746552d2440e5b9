package handlers

import (
	"net/http"
	"time"

	"github.com/faceattend/faceattend/internal/attendance"
)

// AttendanceHandler serves the attendance journal.
type AttendanceHandler struct {
	journal *attendance.Journal
}

// NewAttendanceHandler creates an attendance handler.
func NewAttendanceHandler(journal *attendance.Journal) *AttendanceHandler {
	return &AttendanceHandler{journal: journal}
}

// List handles GET /attendance?date=YYYY-MM-DD, defaulting to today.
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}

	records, err := h.journal.OnDate(day)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if records == nil {
		records = []attendance.Record{}
	}
	respondJSON(w, http.StatusOK, records)
}
