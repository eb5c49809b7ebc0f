// Package logger предоставляет тонкую обёртку над slog для структурированных логов.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger - глобальный логгер приложения.
var Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// Setup пересоздаёт Logger с указанным уровнем ("debug", "info", "warn", "error").
func Setup(w io.Writer, level string) {
	Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel разбирает уровень логирования; неизвестные значения дают Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Error пишет сообщение об ошибке.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

// Info пишет информационное сообщение.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn пишет предупреждение.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Debug пишет отладочное сообщение.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}
