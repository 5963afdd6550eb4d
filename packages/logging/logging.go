// Package logging builds the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scriptscraper/packages/config"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const serviceName = "scriptscraper"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

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

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level >= slog.LevelError:
		return charmlog.ErrorLevel
	case level >= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.InfoLevel
	}
}

// Setup installs a logger writing to stdout and, when cfg.LogFile is set, to a
// rotating log file. The returned closer releases the file.
func Setup(cfg config.Config, stdout io.Writer) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.LogLevel)

	var out io.Writer = stdout
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		logDir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(logDir, 0750); err != nil {
			return nil, nil, fmt.Errorf("create log directory %s: %w", logDir, err)
		}
		logRotator := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		}
		out = io.MultiWriter(stdout, logRotator)
		closer = logRotator
	}

	var handler slog.Handler
	switch cfg.LogFormat {
	case config.LogFormatConsole:
		handler = charmlog.NewWithOptions(out, charmlog.Options{
			Level:           charmLevel(level),
			Prefix:          serviceName,
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
		})
	default:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey && len(groups) == 0 {
					a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		}).WithAttrs([]slog.Attr{slog.String("service", serviceName)})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, closer, nil
}
