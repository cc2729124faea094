package logger

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// maxRequestIDLen ограничивает длину идентификатора, пришедшего от клиента.
const maxRequestIDLen = 128

type requestIDKey struct{}

// ContextWithRequestID кладет идентификатор запроса в ctx. Пустой или слишком
// длинный идентификатор заменяется новым UUID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" || len(id) > maxRequestIDLen {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFrom возвращает идентификатор запроса из ctx.
func RequestIDFrom(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}
