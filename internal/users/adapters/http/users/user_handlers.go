// Package users содержит HTTP-обработчики для управления профилями пользователей.
package users

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/utils/v2"
	"go.uber.org/zap"

	"userprofiles/internal/users/adapters/http/middleware"
	"userprofiles/internal/users/app/dto"
	"userprofiles/internal/users/domain/entities"
	"userprofiles/internal/users/domain/validation"
	"userprofiles/internal/users/ports/api"
	"userprofiles/pkg/logger"
)

// Сообщения ответов.
const (
	MsgUserCreated      = "New user created :)"
	MsgUserUpdated      = "User updated :)"
	MsgValidationFailed = "⚠ There is an error about user information. Please read the error list and check it"
	MsgStoreFailure     = "⚠ Something went wrong while accessing the user store"
	MsgInvalidBody      = "⚠ The request body could not be read"
	MsgUserNotFoundFmt  = "User with id %s not found"
	MsgUserDeletedFmt   = "User with id %s deleted! :O"
)

// Константы для логирования.
const (
	LogHandlerListUsers   = "handling list users request"
	LogHandlerGetUser     = "handling get user request"
	LogHandlerCreateUser  = "handling create user request"
	LogHandlerReplaceUser = "handling replace user request"
	LogHandlerDeleteUser  = "handling delete user request"

	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgSendResponse       = "error sending response"
)

// ParamID - имя параметра маршрута с ID записи.
const ParamID = "id"

// Handler обработчик HTTP-запросов для работы с пользователями.
type Handler struct {
	users api.UserUseCase
}

// NewHandler создает новый экземпляр обработчика пользователей.
func NewHandler(users api.UserUseCase) *Handler {
	return &Handler{users: users}
}

// ListUsers возвращает все записи.
func (h *Handler) ListUsers(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ListUsers"))
	log.Debug(requestCtx, LogHandlerListUsers)

	users, err := h.users.ListUsers(requestCtx)
	if err != nil {
		log.Error(requestCtx, "failed to list users", zap.Error(err))
		return send(ctx, fiber.StatusBadRequest, storeFailure(err))
	}

	return send(ctx, fiber.StatusOK, users)
}

// GetUser возвращает запись по ID.
func (h *Handler) GetUser(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	id := utils.CopyString(ctx.Params(ParamID))
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.GetUser"), zap.String("userID", id))
	log.Debug(requestCtx, LogHandlerGetUser)

	user, err := h.users.GetUser(requestCtx, id)
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			return send(ctx, fiber.StatusNotFound, notFound(id))
		}
		log.Error(requestCtx, "failed to get user", zap.Error(err))
		return send(ctx, fiber.StatusBadRequest, storeFailure(err))
	}

	return send(ctx, fiber.StatusOK, user)
}

// CreateUser проверяет и сохраняет новую запись.
func (h *Handler) CreateUser(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.CreateUser"))
	log.Debug(requestCtx, LogHandlerCreateUser)

	var req dto.UserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return send(ctx, fiber.StatusBadRequest, &dto.ErrorResponse{Message: MsgInvalidBody, Error: err.Error()})
	}

	user, err := h.users.CreateUser(requestCtx, req.ToEntity())
	if err != nil {
		return h.writeFailure(ctx, "", err)
	}

	return send(ctx, fiber.StatusOK, &dto.UserResponse{Message: MsgUserCreated, UserData: user})
}

// ReplaceUser заменяет запись целиком.
func (h *Handler) ReplaceUser(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	id := utils.CopyString(ctx.Params(ParamID))
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.ReplaceUser"), zap.String("userID", id))
	log.Debug(requestCtx, LogHandlerReplaceUser)

	var req dto.UserRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(requestCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return send(ctx, fiber.StatusBadRequest, &dto.ErrorResponse{Message: MsgInvalidBody, Error: err.Error()})
	}

	user, err := h.users.ReplaceUser(requestCtx, id, req.ToEntity())
	if err != nil {
		return h.writeFailure(ctx, id, err)
	}

	return send(ctx, fiber.StatusOK, &dto.UserResponse{Message: MsgUserUpdated, UserData: user})
}

// DeleteUser удаляет запись. Удаление отсутствующей записи тоже успешно.
func (h *Handler) DeleteUser(ctx fiber.Ctx) error {
	requestCtx := middleware.RequestContext(ctx)
	id := utils.CopyString(ctx.Params(ParamID))
	log := logger.Log(requestCtx).With(zap.String("handler", "Handler.DeleteUser"), zap.String("userID", id))
	log.Debug(requestCtx, LogHandlerDeleteUser)

	if err := h.users.DeleteUser(requestCtx, id); err != nil {
		log.Error(requestCtx, "failed to delete user", zap.Error(err))
		return send(ctx, fiber.StatusBadRequest, storeFailure(err))
	}

	return send(ctx, fiber.StatusOK, &dto.MessageResponse{Message: fmt.Sprintf(MsgUserDeletedFmt, id)})
}

// writeFailure переводит ошибку записи в ответ.
func (h *Handler) writeFailure(ctx fiber.Ctx, id string, err error) error {
	requestCtx := middleware.RequestContext(ctx)

	var problems validation.Problems
	switch {
	case errors.As(err, &problems):
		return send(ctx, fiber.StatusBadRequest, dto.NewValidationErrorResponse(MsgValidationFailed, problems))
	case errors.Is(err, entities.ErrUserNotFound):
		return send(ctx, fiber.StatusNotFound, notFound(id))
	default:
		logger.Log(requestCtx).Error(requestCtx, "failed to write user", zap.Error(err))
		return send(ctx, fiber.StatusBadRequest, storeFailure(err))
	}
}

func storeFailure(err error) *dto.ErrorResponse {
	return &dto.ErrorResponse{Message: MsgStoreFailure, Error: err.Error()}
}

func notFound(id string) *dto.MessageResponse {
	return &dto.MessageResponse{Message: fmt.Sprintf(MsgUserNotFoundFmt, id)}
}

func send(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSendResponse, err)
	}
	return nil
}
