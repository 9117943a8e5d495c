package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	log.Info().Str("key", "value").Msg("test message")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["message"] != "test message" {
		t.Errorf("message = %v, want %q", entry["message"], "test message")
	}
	if entry["key"] != "value" {
		t.Errorf("key = %v, want %q", entry["key"], "value")
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected a timestamp field")
	}
}

func TestNewRespectsLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	log := New()
	if log.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("level = %s, want error", log.GetLevel())
	}

	t.Setenv("LOG_LEVEL", "not-a-level")
	log = New()
	if log.GetLevel() == zerolog.ErrorLevel {
		t.Error("invalid LOG_LEVEL should fall back to the default level")
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf)

	ctx := WithContext(context.Background(), log)
	got := FromContext(ctx)

	got.Info().Msg("through context")
	if !strings.Contains(buf.String(), "through context") {
		t.Errorf("context logger did not write to the original writer: %s", buf.String())
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	// Must not panic and must return a usable logger.
	log := FromContext(context.Background())
	log.Debug().Msg("default logger")
}
