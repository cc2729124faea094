package logger

import "go.uber.org/zap"

// Wrap позволяет тестам подложить наблюдаемый zap.Logger.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{l: l}
}
