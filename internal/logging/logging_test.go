package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Investment-Results/internal/config"
)

func TestSetup(t *testing.T) {
	t.Run("json output honours level", func(t *testing.T) {
		// Setup
		var buf bytes.Buffer
		logger, err := Setup(config.LogConfig{Level: "warn", Format: "json"}, &buf)
		if err != nil {
			t.Fatalf("Setup() returned error: %v", err)
		}

		// Execute
		logger.Info().Msg("hidden")
		logger.Warn().Str("fund", "ALL01").Msg("shown")

		// Assert
		out := strings.TrimSpace(buf.String())
		if strings.Contains(out, "hidden") {
			t.Errorf("Expected info line to be filtered, got %s", out)
		}
		var line map[string]any
		if err := json.Unmarshal([]byte(out), &line); err != nil {
			t.Fatalf("Expected one JSON line, got %q: %v", out, err)
		}
		if line["fund"] != "ALL01" || line["level"] != "warn" {
			t.Errorf("Unexpected log line %v", line)
		}
	})

	t.Run("console output is not json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := Setup(config.LogConfig{Level: "debug", Format: "console"}, &buf)
		if err != nil {
			t.Fatalf("Setup() returned error: %v", err)
		}

		logger.Debug().Msg("hello")

		if !strings.Contains(buf.String(), "hello") || strings.HasPrefix(buf.String(), "{") {
			t.Errorf("Expected console formatted line, got %q", buf.String())
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		if _, err := Setup(config.LogConfig{Level: "loud", Format: "json"}, &bytes.Buffer{}); err == nil {
			t.Error("Expected error for unknown level")
		}
	})
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	attached := zerolog.New(&buf)
	ctx := attached.WithContext(context.Background())

	FromContext(ctx).Info().Msg("via context")

	if !strings.Contains(buf.String(), "via context") {
		t.Errorf("Expected context logger to be used, got %q", buf.String())
	}
	if FromContext(context.Background()) == nil {
		t.Error("Expected global logger fallback")
	}
}
