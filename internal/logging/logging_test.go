package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewConsole(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closer := New(Options{Level: zerolog.InfoLevel, Console: &buf, NoColor: true})
	defer closer.Close()

	logger.Debug().Msg("hidden")
	logger.Info().Str("session", "abc").Msg("run finished")

	got := buf.String()
	if strings.Contains(got, "hidden") {
		t.Errorf("debug message written at info level: %q", got)
	}
	if !strings.Contains(got, "run finished") || !strings.Contains(got, "session=abc") {
		t.Errorf("console output = %q, want message and field", got)
	}
}

func TestNewFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gunner.log")

	var console bytes.Buffer
	logger, closer := New(Options{Level: zerolog.DebugLevel, Console: &console, NoColor: true, File: path})
	logger.Debug().Int("fetch", 1).Msg("page fetched")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), `"message":"page fetched"`) || !strings.Contains(string(data), `"fetch":1`) {
		t.Errorf("log file = %q, want JSON line", data)
	}
	if !strings.Contains(console.String(), "page fetched") {
		t.Errorf("console output = %q, want message", console.String())
	}
}
