// Package logger определяет интерфейс структурированного логирования,
// который используют пакеты gobench. Реализация по умолчанию построена на log/slog.
package logger

// Level задаёт уровень логирования.
type Level = int8

const (
	DebugLevel Level = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Logger - общий интерфейс логгера. Аргументы после сообщения передаются парами ключ-значение.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
	// With возвращает дочерний логгер с добавленным контекстом.
	With(keysAndValues ...any) Logger
	Level() Level
	SetLevel(level Level)
}

// ParseLevel переводит строковое имя уровня (debug, info, warn, error) в Level.
// Неизвестные имена дают InfoLevel.
func ParseLevel(name string) Level {
	switch name {
	case "debug", "DEBUG":
		return DebugLevel
	case "warn", "warning", "WARN":
		return WarnLevel
	case "error", "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}
