package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/groupcart/order-collector/internal/api/http/handlers"
	"github.com/groupcart/order-collector/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Orders         *handlers.OrdersHandler
	Admin          *handlers.AdminHandler
	Gateway        *handlers.GatewayHandler
	Catalog        *handlers.CatalogHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/register", cfg.Auth.Register)
	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireUser)

	protected.Get("/collection", cfg.Orders.CollectionStatus)
	protected.Get("/orders", cfg.Orders.List)
	protected.Post("/orders", cfg.Orders.Submit)
	protected.Post("/orders/:product_id/increment", cfg.Orders.Increment)
	protected.Post("/orders/:product_id/decrement", cfg.Orders.Decrement)
	protected.Delete("/orders/archived/:product_id", cfg.Orders.DeleteArchived)
	protected.Delete("/orders/:product_id", cfg.Orders.Cancel)

	protected.Get("/catalog/products", cfg.Catalog.Products)
	protected.Get("/catalog/categories", cfg.Catalog.Categories)

	protected.Post("/gateway/callback", cfg.Gateway.Callback)

	admin := protected.Group("/admin", auth.RequireAdmin)
	admin.Post("/collection/new", cfg.Admin.NewCollection)
	admin.Post("/collection/open", cfg.Admin.OpenCollection)
	admin.Post("/collection/close", cfg.Admin.CloseCollection)

	admin.Get("/orders/by-product", cfg.Admin.OrdersByProduct)
	admin.Get("/orders/by-user", cfg.Admin.OrdersByUser)
	admin.Get("/orders/export", cfg.Admin.ExportProductIDs)
	admin.Post("/orders/:user_id/:product_id/done", cfg.Admin.MarkDone)
	admin.Delete("/orders/:user_id/:product_id", cfg.Admin.CancelOrder)
	admin.Post("/products/:product_id/done", cfg.Admin.MarkProductDone)

	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.AddUser)
	admin.Get("/users/without-orders", cfg.Admin.UsersWithoutOrders)
	admin.Put("/users/:user_id/name", cfg.Admin.RenameUser)
	admin.Put("/users/:user_id/admin", cfg.Admin.SetAdmin)
	admin.Delete("/users/:user_id", cfg.Admin.RemoveUser)

	admin.Get("/blacklist", cfg.Admin.Blacklist)
	admin.Post("/blacklist/:user_id", cfg.Admin.BlacklistUser)
	admin.Delete("/blacklist/:user_id", cfg.Admin.UnblacklistUser)

	admin.Get("/password", cfg.Admin.SharedPassword)
	admin.Put("/password", cfg.Admin.SetSharedPassword)
	admin.Delete("/password", cfg.Admin.ClearSharedPassword)

	admin.Get("/products", cfg.Admin.ListProducts)
	admin.Delete("/products/:product_id", cfg.Admin.RemoveProduct)
}
