package middleware

import (
	"net/http"

	"github.com/faceattend/faceattend/internal/credential"
)

// adminHeader carries the admin password on administrative requests.
// There is a single admin credential and no session machinery; every
// administrative request re-verifies against the stored hash.
const adminHeader = "X-Admin-Password"

// RequireAdmin is middleware that gates administrative routes behind the
// admin credential.
func RequireAdmin(creds *credential.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			candidate := r.Header.Get(adminHeader)
			if candidate == "" {
				http.Error(w, `{"error": "admin password required"}`, http.StatusUnauthorized)
				return
			}

			ok, err := creds.Verify(candidate)
			if err != nil {
				http.Error(w, `{"error": "credential storage unavailable"}`, http.StatusInternalServerError)
				return
			}
			if !ok {
				http.Error(w, `{"error": "unauthorized"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
