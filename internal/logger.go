package internal

import (
	"context"
	"io"
	"os"
	"time"
	"webpay/entity"
	"webpay/services"

	"github.com/rs/zerolog"
)

// Logger implements services.LogHandler on zerolog. Warnings and errors are
// mirrored into the database when one is set.
type Logger struct {
	category string
	log      zerolog.Logger
	database services.Database
}

func NewLogger(category string, debug bool, database services.Database) *Logger {
	var out io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if debug {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
		level = zerolog.DebugLevel
	}
	return newLogger(category, out, level, database)
}

func newLogger(category string, out io.Writer, level zerolog.Level, database services.Database) *Logger {
	return &Logger{
		category: category,
		log:      zerolog.New(out).Level(level).With().Timestamp().Str("category", category).Logger(),
		database: database,
	}
}

func (l *Logger) Debug(text string) {
	l.log.Debug().Msg(text)
}

func (l *Logger) Info(text string) {
	l.log.Info().Msg(text)
}

func (l *Logger) Warn(text string) {
	l.log.Warn().Msg(text)
	l.write("warn", text)
}

func (l *Logger) Error(text string, err error) {
	l.log.Error().Err(err).Msg(text)
	if err != nil {
		text = text + ": " + err.Error()
	}
	l.write("error", text)
}

func (l *Logger) write(level, text string) {
	if l.database == nil {
		return
	}
	message := &entity.LogMessage{
		Time:     time.Now(),
		Level:    level,
		Category: l.category,
		Text:     text,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := l.database.WriteLogMessage(ctx, message); err != nil {
		l.log.Debug().Err(err).Msg("write log message")
	}
}
