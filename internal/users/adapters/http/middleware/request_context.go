// Package middleware содержит промежуточное ПО для HTTP обработчиков.
package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"

	"userprofiles/pkg/logger"
)

// UserContextKey - ключ Locals, под которым хранится контекст запроса.
const UserContextKey = "userContext"

// NewRequestContextMiddleware кладет в Locals контекст с request id.
// Должно стоять после requestid.New(), который выставляет заголовок ответа.
func NewRequestContextMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestID := ctx.GetRespHeader(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = ctx.Get(fiber.HeaderXRequestID)
		}

		requestCtx := logger.ContextWithRequestID(ctx.Context(), utils.CopyString(requestID))
		if stored, _ := logger.RequestIDFrom(requestCtx); stored != requestID {
			ctx.Set(fiber.HeaderXRequestID, stored)
		}

		ctx.Locals(UserContextKey, requestCtx)
		return ctx.Next()
	}
}

// RequestContext возвращает контекст запроса из Locals.
func RequestContext(ctx fiber.Ctx) context.Context {
	if requestCtx, ok := ctx.Locals(UserContextKey).(context.Context); ok {
		return requestCtx
	}
	return ctx.Context()
}
