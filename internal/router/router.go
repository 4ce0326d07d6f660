package router

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/tavola-pos/api/internal/config"
	"github.com/tavola-pos/api/internal/enum"
	"github.com/tavola-pos/api/internal/handler"
	mw "github.com/tavola-pos/api/internal/middleware"
	"github.com/tavola-pos/api/internal/service"
	"github.com/tavola-pos/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Applies authentication and role-based middleware as needed.
func New(cfg *config.Config, restaurant *service.Restaurant, advisor handler.Advisor, hub *ws.Hub) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	authHandler := handler.NewAuthHandler(restaurant, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	// WebSocket route (handles auth internally via query param)
	r.Get("/ws/board", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, cfg.JWTSecret, w, r)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))

		r.Route("/menu", handler.NewMenuHandler(restaurant).RegisterRoutes)
		r.Route("/orders", handler.NewOrderHandler(restaurant).RegisterRoutes)
		r.Route("/tables", handler.NewTableHandler(restaurant).RegisterRoutes)
		r.Route("/customers", handler.NewCustomerHandler(restaurant).RegisterRoutes)
		r.Route("/config", handler.NewSettingsHandler(restaurant).RegisterRoutes)
		r.Route("/recommendations", handler.NewRecommendationHandler(advisor).RegisterRoutes)

		// Manager-only routes
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireRole(enum.StaffRoleManager))
			r.Route("/staff", handler.NewStaffHandler(restaurant).RegisterRoutes)
			r.Route("/reports", handler.NewReportsHandler(restaurant, time.Local).RegisterRoutes)
		})
	})

	log.Println("Router initialized with all handlers")
	return r
}
