// Package health отвечает на проверки готовности сервиса.
package health

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"userprofiles/internal/users/adapters/http/middleware"
	"userprofiles/internal/users/app/dto"
	"userprofiles/pkg/logger"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"

	pingTimeout = 2 * time.Second
)

// Pinger проверяет доступность хранилища.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обработчик проверки готовности.
type Handler struct {
	store Pinger
}

// NewHandler создает обработчик.
func NewHandler(store Pinger) *Handler {
	return &Handler{store: store}
}

// Check отвечает 200, если хранилище доступно, и 503 иначе.
func (h *Handler) Check(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)

	pingCtx, cancel := context.WithTimeout(requestCtx, pingTimeout)
	defer cancel()

	status, body := fiber.StatusOK, &dto.HealthResponse{Status: StatusOK}
	if err := h.store.Ping(pingCtx); err != nil {
		logger.Log(requestCtx).Warn(requestCtx, "health check failed", zap.Error(err))
		status, body = fiber.StatusServiceUnavailable, &dto.HealthResponse{Status: StatusUnavailable, Error: err.Error()}
	}

	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}
