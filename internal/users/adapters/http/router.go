// Package http содержит компоненты для HTTP сервера.
package http

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/requestid"

	"userprofiles/internal/users/adapters/http/health"
	"userprofiles/internal/users/adapters/http/middleware"
	"userprofiles/internal/users/adapters/http/users"
	"userprofiles/internal/users/metrics"
	"userprofiles/internal/users/ports/api"
)

// DefaultMetricsPath - маршрут метрик, если Dependencies.MetricsPath пуст.
const DefaultMetricsPath = "/metrics"

// Dependencies - зависимости маршрутизатора.
type Dependencies struct {
	Users  api.UserUseCase
	Health health.Pinger
	// Metrics учитывает длительность запросов. Может быть nil.
	Metrics *metrics.Metrics
	// MetricsHandler отдает метрики. nil отключает маршрут.
	MetricsHandler fiber.Handler
	MetricsPath    string
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps Dependencies) {
	usersHandler := users.NewHandler(deps.Users)

	// Middleware для всех запросов.
	app.Use(requestid.New())
	app.Use(middleware.NewRequestContextMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewMetricsMiddleware(deps.Metrics))
	app.Use(cors.New())

	app.Get("/users", usersHandler.ListUsers)
	app.Get("/user/:"+users.ParamID, usersHandler.GetUser)
	app.Post("/new-user", usersHandler.CreateUser)
	app.Post("/user", usersHandler.CreateUser)
	app.Put("/user/:"+users.ParamID, usersHandler.ReplaceUser)
	app.Delete("/user/:"+users.ParamID, usersHandler.DeleteUser)

	if deps.Health != nil {
		app.Get("/health", health.NewHandler(deps.Health).Check)
	}

	if deps.MetricsHandler != nil {
		path := deps.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		app.Get(path, deps.MetricsHandler)
	}

	// Обработчик для несуществующих маршрутов.
	app.Use(func(c fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Route not found",
		})
	})
}
