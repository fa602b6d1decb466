package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// FileName задаёт файл, который New пишет рядом с stderr.
const FileName = "sleuth.log"

// openSink дописывает в path и дублирует в stderr. Если файл не открылся, остаётся только stderr и ошибка.
func openSink(path string) (io.Writer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return os.Stderr, fmt.Errorf("open log file %s: %w", path, err)
	}
	return io.MultiWriter(f, os.Stderr), nil
}

// ParseLevel переводит строку из конфига (debug, info, warn, error) в slog.Level. Неизвестное значение даёт Info.
func ParseLevel(level string) slog.Level {
	switch level {
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

// New возвращает логгер с текстовым выводом в FileName и stderr.
// Каждая запись, сделанная через *Context-методы, получает trace_id и span_id активного спана.
func New(level string) *slog.Logger {
	w, err := openSink(FileName)
	log := NewWithWriter(w, level)
	if err != nil {
		log.Warn("file logging disabled, writing to stderr only", "error", err)
	}
	return log
}

// NewWithWriter то же, что New, но пишет в w (удобно в тестах).
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(NewTraceHandler(h))
}
