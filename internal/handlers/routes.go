package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frscdev/offence-register/internal/middleware"
	"github.com/frscdev/offence-register/internal/models"
)

// NewRouter wires all handlers behind the authentication and rate limiting
// middleware. Mutating offence routes require the admin role; the login
// endpoints and health check are open.
func NewRouter(
	authHandler *AuthHandler,
	offenceHandler *OffenceHandler,
	dashboardHandler *DashboardHandler,
	authMw *middleware.AuthMiddleware,
	rateMw *middleware.RateLimitMiddleware,
) http.Handler {
	r := chi.NewRouter()
	r.Use(rateMw.RateLimit(100, 60))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(authMw.Authenticate)

		api.Post("/auth/login", authHandler.Login)
		api.Post("/auth/vehicle-login", authHandler.VehicleLogin)
		api.Post("/auth/logout", authHandler.Logout)
		api.Get("/auth/me", authHandler.Me)

		api.Get("/my/offences", offenceHandler.MyOffences)

		admin := authMw.RequireRole(models.RoleAdmin)
		api.Route("/offences", func(ro chi.Router) {
			ro.With(admin).Get("/", offenceHandler.List)
			ro.With(admin).Post("/", offenceHandler.Create)
			ro.Get("/{id}", offenceHandler.Get)
			ro.With(admin).Put("/{id}", offenceHandler.Update)
			ro.With(admin).Delete("/{id}", offenceHandler.Delete)
			ro.Post("/{id}/pay", offenceHandler.Pay)
			ro.Get("/{id}/receipt", offenceHandler.Receipt)
		})

		api.With(admin).Get("/dashboard/admin", dashboardHandler.Admin)
		api.Get("/dashboard/user", dashboardHandler.User)
	})

	return r
}
