package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/FrigaaAbdou/show-backend/internal/apperror"
	"github.com/FrigaaAbdou/show-backend/internal/auth"
	"github.com/FrigaaAbdou/show-backend/internal/cart"
	"github.com/FrigaaAbdou/show-backend/internal/config"
	"github.com/FrigaaAbdou/show-backend/internal/item"
	"github.com/FrigaaAbdou/show-backend/internal/order"
	"github.com/FrigaaAbdou/show-backend/internal/storage"
	"github.com/FrigaaAbdou/show-backend/internal/user"
)

// New wires services and handlers over stores and returns the fiber app.
func New(cfg config.Config, stores *storage.Stores) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "show-backend",
		ErrorHandler: apperror.ErrorHandler,
		Immutable:    true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${method} ${path} ${latency}\n",
	}))
	app.Use(helmet.New())
	setupCORS(app, cfg.AllowedOrigins)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("API is running")
	})

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	userService := user.NewService(stores.Users, tokens, cfg.AdminSecret)
	itemService := item.NewService(stores.Items)
	cartService := cart.NewService(stores.Carts, itemService)
	orderService := order.NewService(stores.Orders, itemService)

	// roles are looked up per request so a demoted or deleted user loses
	// access before the token expires
	guard := auth.NewGuard(tokens, userService).Handler

	api := app.Group("/api")

	users := user.NewHandler(userService)
	authGroup := api.Group("/auth")
	users.RegisterPublicRoutes(authGroup)
	users.RegisterProtectedRoutes(authGroup, guard)

	items := item.NewHandler(itemService)
	itemGroup := api.Group("/item")
	items.RegisterPublicRoutes(itemGroup)
	items.RegisterProtectedRoutes(itemGroup, guard)

	cart.NewHandler(cartService).RegisterProtectedRoutes(api.Group("/cart"), guard)
	order.NewHandler(orderService).RegisterProtectedRoutes(api.Group("/orders"), guard)

	return app
}

func setupCORS(app *fiber.App, origins []string) {
	allowed := strings.Join(origins, ",")
	if allowed == "" {
		allowed = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowed,
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: allowed != "*",
	}))
}
