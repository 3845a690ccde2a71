package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/homequeen/api/app"
	"github.com/homequeen/api/handlers"
	"github.com/homequeen/api/middleware"
	"github.com/homequeen/api/models"
	"github.com/homequeen/api/services"
	"github.com/homequeen/api/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	cfg, logger := deps.Config, deps.Logger
	r := chi.NewRouter()

	// Core middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(cfg.Server.RequestTimeout))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Subrouters copy these when mounted, so they are set first
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, services.ErrEndpointNotFound.Message)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Health check endpoints
	health := handlers.NewHealthHandler(deps.SQLDB(), logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", health.HandlePing)

		r.Group(func(r chi.Router) {
			r.Use(middleware.EnvCheck(deps.Problems, services.ProblemHint, logger))

			if deps.Misconfigured() {
				// Everything behind the gate answers 503
				r.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {})
				return
			}
			mountAPI(r, deps)
		})
	})

	return r
}

// mountAPI registers the resource routes of a fully configured server
func mountAPI(r chi.Router, deps *app.Dependencies) {
	resp := handlers.Responder{Logger: deps.Logger, ShowDetail: !deps.Config.IsProduction()}
	authn := deps.AuthMiddleware

	auth := handlers.NewAuthHandler(deps.Auth, resp)
	users := handlers.NewUserHandler(deps.Users, deps.Families, resp)
	tasks := handlers.NewTaskHandler(deps.Tasks, resp)
	expenses := handlers.NewExpenseHandler(deps.Expenses, resp)
	shopping := handlers.NewShoppingHandler(deps.Shopping, resp)
	kids := handlers.NewKidHandler(deps.Kids, resp)
	market := handlers.NewMarketplaceHandler(deps.Marketplace, resp)
	notifications := handlers.NewNotificationHandler(deps.Notifications, resp)
	admin := handlers.NewAdminHandler(deps.Audit, resp)

	// Public routes
	r.Post("/auth/register", auth.HandleRegister)
	r.Post("/auth/login", auth.HandleLogin)
	r.Get("/services", market.HandleServices)
	r.Get("/services/categories", market.HandleCategories)

	// Provider browsing works with or without a token
	r.Group(func(r chi.Router) {
		r.Use(authn.OptionalAuth)
		r.Get("/providers", market.HandleProviders)
		r.Get("/providers/{id}", market.HandleProvider)
	})

	r.Group(func(r chi.Router) {
		r.Use(authn.RequireAuth)

		r.Post("/auth/logout", auth.HandleLogout)

		r.Route("/users/me", func(r chi.Router) {
			r.Get("/", users.HandleMe)
			r.Patch("/", users.HandleUpdateMe)
		})

		r.Route("/family", func(r chi.Router) {
			r.Get("/", users.HandleGetFamily)
			r.Post("/", users.HandleCreateFamily)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", tasks.HandleList)
			r.Post("/", tasks.HandleCreate)
			r.Patch("/{id}", tasks.HandleUpdate)
			r.Delete("/{id}", tasks.HandleDelete)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", expenses.HandleList)
			r.Get("/summary", expenses.HandleSummary)
			r.Post("/", expenses.HandleCreate)
			r.Delete("/{id}", expenses.HandleDelete)
		})

		r.Route("/shopping", func(r chi.Router) {
			r.Get("/lists", shopping.HandleListLists)
			r.Post("/lists", shopping.HandleCreateList)
			r.Get("/lists/{id}", shopping.HandleGetList)
			r.Post("/lists/{id}/items", shopping.HandleAddItem)
			r.Patch("/items/{id}", shopping.HandleUpdateItem)
			r.Delete("/items/{id}", shopping.HandleDeleteItem)
		})

		r.Route("/kids", func(r chi.Router) {
			r.Get("/profiles", kids.HandleListProfiles)
			r.Post("/profiles", kids.HandleCreateProfile)
			r.Patch("/profiles/{id}", kids.HandleUpdateProfile)
			r.Delete("/profiles/{id}", kids.HandleDeleteProfile)
			r.Get("/profiles/{kidId}/homework", kids.HandleKidHomework)
			r.Post("/profiles/{kidId}/homework", kids.HandleCreateHomework)
			r.Get("/homework", kids.HandleListHomework)
			r.Patch("/homework/{id}", kids.HandleUpdateHomework)
			r.Delete("/homework/{id}", kids.HandleDeleteHomework)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", market.HandleBookings)
			r.Post("/", market.HandleCreateBooking)
			r.With(authn.RequireRole(models.RoleServiceProvider, models.RoleAdmin)).
				Patch("/{id}/status", market.HandleUpdateBookingStatus)
		})

		r.Get("/orders", market.HandleOrders)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notifications.HandleList)
			r.Patch("/read-all", notifications.HandleMarkAllRead)
			r.Patch("/{id}/read", notifications.HandleMarkRead)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authn.RequireRole(models.RoleAdmin))
			r.Get("/audit", admin.HandleAudit)
		})
	})
}
