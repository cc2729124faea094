// Package dto описывает тела HTTP-запросов и ответов сервиса пользователей.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"userprofiles/internal/users/domain/entities"
	"userprofiles/internal/users/domain/validation"
)

// Text - строковое поле запроса, которое также принимает JSON-числа и булевы значения.
// Клиенты часто присылают edad и dni числами.
type Text string

// UnmarshalJSON принимает строку, число, bool или null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid string value: %w", err)
		}
		*t = Text(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return fmt.Errorf("invalid boolean value: %w", err)
		}
		*t = Text(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported value %s: %w", data, err)
		}
		*t = Text(n.String())
	}
	return nil
}

// UnmarshalText используется при разборе форм.
func (t *Text) UnmarshalText(data []byte) error {
	*t = Text(data)
	return nil
}

// UserRequest - тело POST и PUT запросов. Поле _id принимается, но не используется.
type UserRequest struct {
	ID            Text `json:"_id" form:"_id"`
	GivenName     Text `json:"nombre" form:"nombre"`
	FamilyName    Text `json:"apellidos" form:"apellidos"`
	Age           Text `json:"edad" form:"edad"`
	NationalID    Text `json:"dni" form:"dni"`
	BirthDate     Text `json:"cumpleanos" form:"cumpleanos"`
	FavoriteColor Text `json:"colorFavorito" form:"colorFavorito"`
	Gender        Text `json:"sexo" form:"sexo"`
}

// ToEntity переводит запрос в запись-кандидата без ID.
// Строки клонируются: при разборе форм fiber может отдать значения, указывающие
// в буфер запроса.
func (r *UserRequest) ToEntity() *entities.User {
	return &entities.User{
		GivenName:     strings.Clone(string(r.GivenName)),
		FamilyName:    strings.Clone(string(r.FamilyName)),
		Age:           strings.Clone(string(r.Age)),
		NationalID:    strings.Clone(string(r.NationalID)),
		BirthDate:     strings.Clone(string(r.BirthDate)),
		FavoriteColor: strings.Clone(string(r.FavoriteColor)),
		Gender:        strings.Clone(string(r.Gender)),
	}
}

// UserResponse - успешный ответ на запись.
type UserResponse struct {
	Message  string         `json:"message"`
	UserData *entities.User `json:"userData"`
}

// ValidationErrorResponse - ответ при нарушениях проверки.
type ValidationErrorResponse struct {
	Message   string               `json:"message"`
	ErrorList []string             `json:"errorList"`
	Errors    []validation.Problem `json:"errors"`
}

// NewValidationErrorResponse собирает ответ из списка проблем.
func NewValidationErrorResponse(message string, problems validation.Problems) *ValidationErrorResponse {
	return &ValidationErrorResponse{
		Message:   message,
		ErrorList: problems.Messages(),
		Errors:    problems,
	}
}

// ErrorResponse - ответ при ошибке хранилища или разбора запроса.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// MessageResponse - ответ, состоящий только из сообщения.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse - ответ проверки готовности.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
