package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"scriptscraper/packages/config"

	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestJSONSetup(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	logger, closer, err := Setup(config.Config{LogLevel: "info", LogFormat: config.LogFormatJSON}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	logger.Debug("Hidden")
	slog.Info("Transcript written", "path", "Titanic.txt")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	require.Equal(t, "Transcript written", entry["msg"])
	require.Equal(t, "Titanic.txt", entry["path"])
	require.Equal(t, serviceName, entry["service"])

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339Nano, ts)
	require.NoError(t, err)
}

func TestConsoleSetup(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	_, closer, err := Setup(config.Config{LogLevel: "debug", LogFormat: config.LogFormatConsole}, &buf)
	require.NoError(t, err)
	defer closer.Close()

	slog.Debug("Fetching page", "url", "https://example.com")
	require.Contains(t, buf.String(), "Fetching page")
	require.Contains(t, buf.String(), "https://example.com")
}

func TestSetupWritesLogFile(t *testing.T) {
	restoreDefault(t)
	logFile := filepath.Join(t.TempDir(), "logs", "scraper.log")

	var buf bytes.Buffer
	_, closer, err := Setup(config.Config{LogFormat: config.LogFormatJSON, LogFile: logFile}, &buf)
	require.NoError(t, err)

	slog.Warn("Page looks client-side rendered")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "Page looks client-side rendered")
	require.Contains(t, buf.String(), "Page looks client-side rendered")
}
