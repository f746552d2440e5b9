package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/faceattend/faceattend/internal/attendance"
	"github.com/faceattend/faceattend/internal/credential"
	"github.com/faceattend/faceattend/internal/enroll"
	"github.com/faceattend/faceattend/internal/gallery"
	"github.com/faceattend/faceattend/internal/matcher"
)

// testDeps bundles freshly created file-backed components for handler tests.
type testDeps struct {
	store   *gallery.FileStore
	service *enroll.Service
	creds   *credential.Manager
	journal *attendance.Journal
	match   *matcher.Linear
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()
	dir := t.TempDir()
	store := gallery.NewFileStore(filepath.Join(dir, "gallery.json"))
	return &testDeps{
		store:   store,
		service: enroll.NewService(store, 0),
		creds:   credential.NewManager(filepath.Join(dir, "credential.json")),
		journal: attendance.NewJournal(filepath.Join(dir, "attendance.json")),
		match:   matcher.NewLinear(matcher.DefaultThreshold),
	}
}

// parseJSONResponse parses a JSON response body into the target type.
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code.
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("status = %d, want %d\nBody: %s", recorder.Code, want, recorder.Body.String())
	}
}

// assertContentType checks the Content-Type header.
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, want string) {
	t.Helper()
	if got := recorder.Header().Get("Content-Type"); got != want {
		t.Errorf("Content-Type = %q, want %q", got, want)
	}
}
