package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/faceattend/faceattend/internal/web/handlers"
	"github.com/faceattend/faceattend/internal/web/middleware"
)

func (s *Server) setupRoutes(deps Deps) {
	recognizeHandler := handlers.NewRecognizeHandler(deps.Store, deps.Matcher, deps.Journal, deps.Embedder)
	identitiesHandler := handlers.NewIdentitiesHandler(deps.Store, deps.Enroll)
	attendanceHandler := handlers.NewAttendanceHandler(deps.Journal)
	authHandler := handlers.NewAuthHandler(deps.Creds)

	// Health check (no auth required)
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	s.router.Route("/api/v1", func(r chi.Router) {
		// Recognition is open: the kiosk at the door is not an admin.
		r.Post("/recognize", recognizeHandler.Recognize)
		r.Post("/recognize/image", recognizeHandler.RecognizeImage)

		r.Get("/identities", identitiesHandler.List)

		r.Post("/auth/verify", authHandler.Verify)
		// Rotation re-authenticates with the old password in the body.
		r.Post("/auth/password", authHandler.Rotate)

		// Administrative routes require the admin credential.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(deps.Creds))

			r.Post("/identities", identitiesHandler.Enroll)
			r.Get("/attendance", attendanceHandler.List)
		})
	})
}
