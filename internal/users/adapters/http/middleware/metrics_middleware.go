package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"

	"userprofiles/internal/users/metrics"
)

const unmatchedRoute = "unmatched"

// NewMetricsMiddleware учитывает длительность запросов по шаблону маршрута.
// Метод копируется: строки fiber ссылаются на буфер, который переиспользуется
// следующим запросом, а prometheus хранит значения меток.
func NewMetricsMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		start := time.Now()
		err := ctx.Next()

		route := unmatchedRoute
		if r := ctx.Route(); r != nil && r.Path != "/" {
			route = utils.CopyString(r.Path)
		}
		m.ObserveRequest(utils.CopyString(ctx.Method()), route, ctx.Response().StatusCode(), time.Since(start))

		return err
	}
}
