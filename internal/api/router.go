package api

import (
	"errors"

	"enjez/internal/api/handlers"
	"enjez/internal/models"
	"enjez/pkg/auth"
	"enjez/pkg/config"
	"enjez/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth    *handlers.AuthHandler
	Chat    *handlers.ChatHandler
	Catalog *handlers.CatalogHandler
	Booking *handlers.BookingHandler
	Admin   *handlers.AdminHandler
}

func SetupRouter(h *Handlers, cfg *config.ServerConfig, jwtManager *auth.JWTManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				appLogger.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// served from the spec registered by the docs package
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes (public)
	authRoutes := app.Group("/user/auth")
	authRoutes.Post("/register", h.Auth.Register)
	authRoutes.Post("/login", h.Auth.Login)
	authRoutes.Post("/refresh", h.Auth.RefreshToken)

	v1 := app.Group("/api/v1")

	// Public catalog and assistant
	v1.Get("/services", h.Catalog.ListServices)
	v1.Get("/services/:id", h.Catalog.GetService)
	v1.Get("/categories", h.Catalog.ListCategories)
	v1.Get("/categories/:id/services", h.Catalog.ListCategoryServices)
	v1.Post("/chat", h.Chat.Ask)
	v1.Post("/chat/init", h.Chat.Init)

	authenticated := middleware.AuthMiddleware(jwtManager, appLogger)

	v1.Put("/profile/password", authenticated, h.Auth.ChangePassword)

	bookings := v1.Group("/bookings", authenticated)
	bookings.Post("", h.Booking.CreateBooking)
	bookings.Get("", h.Booking.ListBookings)
	bookings.Get("/:id", h.Booking.GetBooking)

	v1.Get("/recommendations", authenticated, h.Booking.Recommendations)

	admin := v1.Group("/admin", authenticated, middleware.RequireRole(string(models.RoleAdmin)))
	admin.Post("/services", h.Admin.CreateService)
	admin.Put("/services/:id", h.Admin.UpdateService)
	admin.Post("/knowledge/rebuild", h.Admin.RebuildKnowledge)
	admin.Get("/bookings/unseen", h.Admin.ListUnseenBookings)
	admin.Post("/bookings/:id/seen", h.Admin.MarkBookingSeen)
	admin.Put("/bookings/:id/status", h.Admin.UpdateBookingStatus)

	return app
}
