package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/TuanVuuuu/petcare-api/pkg/health"
	"github.com/TuanVuuuu/petcare-api/pkg/middleware"

	"github.com/TuanVuuuu/petcare-api/internal/service"
)

// NewRouter creates a chi router with all petcare API routes registered.
func NewRouter(
	authService *service.AuthService,
	petService *service.PetService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("petcare"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(authService, logger)
	petHandler := NewPetHandler(petService, logger)

	// Token verifier that bridges to the identity platform through the
	// auth service, revocation check included.
	verify := func(ctx context.Context, token string) (*middleware.Claims, error) {
		decoded, err := authService.VerifySession(ctx, token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UID:     decoded.UID,
			Email:   decoded.Email,
			Expires: decoded.Expires,
		}, nil
	}

	// Auth endpoints
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/signup", authHandler.Signup)
		r.With(ContentTypeJSON).Post("/login", authHandler.Login)
		r.With(ContentTypeJSON).Post("/exchange", authHandler.Exchange)
		r.With(ContentTypeJSON).Delete("/delete", authHandler.DeleteAccount)

		// Logout carries no body and must work with a revoked token, so it
		// stays outside both ContentTypeJSON and the auth middleware.
		r.Post("/logout", authHandler.Logout)

		r.With(middleware.Auth(verify)).Get("/me", authHandler.Me)
	})

	// Protected profile endpoint
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Use(middleware.Auth(verify))

		r.Get("/me/profile", authHandler.Profile)
	})

	// Protected pet endpoints
	r.Route("/api/v1/pets", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(verify))

		r.Post("/", petHandler.Create)
		r.Get("/", petHandler.List)
		r.Get("/{id}", petHandler.Get)
		r.Put("/{id}", petHandler.Update)
		r.Delete("/{id}", petHandler.Delete)
	})

	return r
}
