package util

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestInitLogger(t *testing.T) {
	defer log.SetOutput(log.StandardLogger().Out)
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)

	var buf bytes.Buffer
	if err := InitLogger(&buf, "info", LogFormatJSON); err != nil {
		t.Fatalf("InitLogger() error = %v", err)
	}
	log.Debug("hidden")
	log.WithField("path", "a.txt").Info("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["msg"] != "shown" || entry["path"] != "a.txt" {
		t.Errorf("unexpected entry %v", entry)
	}
}

func TestInitLoggerRejectsBadSettings(t *testing.T) {
	defer log.SetLevel(log.GetLevel())
	defer log.SetFormatter(log.StandardLogger().Formatter)

	if err := InitLogger(&bytes.Buffer{}, "info", "xml"); err == nil {
		t.Error("InitLogger() accepted unknown format")
	}
	if err := InitLogger(&bytes.Buffer{}, "loud", LogFormatText); err == nil {
		t.Error("InitLogger() accepted unknown level")
	}
}
