package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rewear-service/internal/api/http/handlers"
	"github.com/spec-kit/rewear-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Items          *handlers.ItemsHandler
	Swaps          *handlers.SwapsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	profile := authGroup.Group("/profile", cfg.AuthMiddleware.Handle, auth.RequireUser())
	profile.Get("/", cfg.Users.GetProfile)
	profile.Put("/", cfg.Users.UpdateProfile)

	items := api.Group("/items")
	items.Get("/", cfg.Items.ListItems)
	items.Get("/user/my-items", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Items.MyItems)
	items.Get("/:id", cfg.Items.GetItem)
	items.Post("/", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Items.CreateItem)
	items.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Items.UpdateItem)
	items.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireUser(), cfg.Items.DeleteItem)

	swaps := api.Group("/swaps", cfg.AuthMiddleware.Handle, auth.RequireUser())
	swaps.Post("/", cfg.Swaps.CreateSwap)
	swaps.Get("/my-swaps", cfg.Swaps.MySwaps)
	swaps.Put("/:id/respond", cfg.Swaps.RespondToSwap)
	swaps.Put("/:id/complete", cfg.Swaps.CompleteSwap)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/items/pending", cfg.Admin.PendingItems)
	admin.Put("/items/:id/moderate", cfg.Admin.ModerateItem)
	admin.Put("/items/:id/featured", cfg.Admin.ToggleFeatured)
	admin.Get("/items/:id/log", cfg.Admin.ModerationLog)
	admin.Delete("/items/:id", cfg.Admin.DeleteItem)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Put("/users/:id/toggle-status", cfg.Admin.ToggleUserStatus)
	admin.Get("/stats", cfg.Admin.Stats)
}
