// Package config
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	FetchModeHTTP    = "http"
	FetchModeBrowser = "browser"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

type Config struct {
	StartURL     string
	LinkRoot     string
	OutputDir    string
	FollowLinks  bool
	FetchMode    string
	FetchTimeout time.Duration
	UserAgent    string

	// Markup selectors for the content container and its parts
	ContainerTag    string
	ContainerClass  string
	TitleTag        string
	TranscriptTag   string
	TranscriptClass string

	LogLevel    string
	LogFormat   string
	LogFile     string
	MetricsAddr string
	Progress    bool
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := FromEnv()
	return cfg, cfg.Validate()
}

// FromEnv reads the configuration from the environment, after merging in a
// .env file from the working directory when one exists. It does not validate,
// so callers can layer other sources on top first.
func FromEnv() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded, relying on environment variables", "error", err)
	}

	cfg := Config{}

	cfg.StartURL = getEnv("START_URL", "https://subslikescript.com/movie/Titanic-120338")
	cfg.LinkRoot = getEnv("LINK_ROOT", "https://subslikescript.com/movies")
	cfg.OutputDir = getEnv("OUTPUT_DIR", ".")
	cfg.FollowLinks = getBool("FOLLOW_LINKS", true)
	cfg.FetchMode = strings.ToLower(getEnv("FETCH_MODE", FetchModeHTTP))
	cfg.FetchTimeout = getDuration("FETCH_TIMEOUT", 30*time.Second)
	cfg.UserAgent = getEnv("USER_AGENT", defaultUserAgent)

	cfg.ContainerTag = getEnv("CONTAINER_TAG", "article")
	cfg.ContainerClass = getEnv("CONTAINER_CLASS", "main-article")
	cfg.TitleTag = getEnv("TITLE_TAG", "h1")
	cfg.TranscriptTag = getEnv("TRANSCRIPT_TAG", "div")
	cfg.TranscriptClass = getEnv("TRANSCRIPT_CLASS", "full-script")

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", LogFormatJSON))
	cfg.LogFile = getEnv("LOG_FILE", "")
	cfg.MetricsAddr = getEnv("METRICS_ADDR", "")
	cfg.Progress = getBool("PROGRESS", false)

	return cfg
}

func (c Config) Validate() error {
	var problems []string

	u, err := url.Parse(c.StartURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		problems = append(problems, fmt.Sprintf("START_URL must be an absolute URL, got %q", c.StartURL))
	}
	if c.FollowLinks && c.LinkRoot == "" {
		problems = append(problems, "LINK_ROOT is required when FOLLOW_LINKS is enabled")
	}
	if c.ContainerTag == "" || c.TitleTag == "" || c.TranscriptTag == "" {
		problems = append(problems, "CONTAINER_TAG, TITLE_TAG and TRANSCRIPT_TAG must not be empty")
	}
	switch c.FetchMode {
	case FetchModeHTTP, FetchModeBrowser:
	default:
		problems = append(problems, fmt.Sprintf("unknown FETCH_MODE %q", c.FetchMode))
	}
	switch c.LogFormat {
	case LogFormatJSON, LogFormatConsole:
	default:
		problems = append(problems, fmt.Sprintf("unknown LOG_FORMAT %q", c.LogFormat))
	}
	if c.FetchTimeout < 0 {
		problems = append(problems, "FETCH_TIMEOUT must not be negative")
	}

	if len(problems) > 0 {
		return errors.New("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getBool(key string, defaultVal bool) bool {
	raw := getEnv(key, strconv.FormatBool(defaultVal))
	v, err := strconv.ParseBool(raw)
	if err != nil {
		slog.Warn("Invalid boolean in environment", "key", key, "value", raw, "error", err)
		return defaultVal
	}
	return v
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	raw := getEnv(key, defaultVal.String())
	v, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("Invalid duration in environment", "key", key, "value", raw, "error", err)
		return defaultVal
	}
	return v
}
