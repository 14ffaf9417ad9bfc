// Package logging configures the global zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/catalog/internal/config"
)

// Init sets the global level and output format. Unknown levels fall back
// to info.
func Init(cfg config.Log) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level))
	log.Logger = zerolog.New(writer(cfg.Format, os.Stderr)).With().Timestamp().Logger()
}

func writer(format string, out io.Writer) io.Writer {
	if strings.EqualFold(format, "console") {
		return zerolog.ConsoleWriter{Out: out}
	}
	return out
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// GormLevel picks the SQL logging level matching the application level.
// Queries are only logged at debug.
func GormLevel(level string) logger.LogLevel {
	switch ParseLevel(level) {
	case zerolog.TraceLevel, zerolog.DebugLevel:
		return logger.Info
	case zerolog.InfoLevel, zerolog.WarnLevel:
		return logger.Warn
	default:
		return logger.Error
	}
}
