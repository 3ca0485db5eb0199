package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger — интерфейс логирования, который прокидывается через конструкторы.
// Реализация не должна быть глобальным состоянием.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(err error, format string, args ...any)
}

type zerologLogger struct {
	log zerolog.Logger
}

// New создаёт логгер поверх zerolog. Уровень задаётся переменной LOG_LEVEL
// (debug/info/warn/error), по умолчанию info.
func New() Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	zl := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Logger()

	zerolog.TimeFieldFormat = time.RFC3339

	return &zerologLogger{log: zl}
}

func (l *zerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologLogger) Errorf(err error, format string, args ...any) {
	l.log.Error().Err(err).Msgf(format, args...)
}
