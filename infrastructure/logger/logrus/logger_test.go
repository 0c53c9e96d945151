package logrusadapter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func captureLogger(level logrus.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(level)
	return NewWithLogger(log), &buf
}

func TestInfo_EmitsStructuredFields(t *testing.T) {
	logger, buf := captureLogger(logrus.InfoLevel)

	logger.Info("Analyzed page", map[string]interface{}{
		"url":    "https://example.com/article",
		"status": "success",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "Analyzed page" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["url"] != "https://example.com/article" {
		t.Errorf("url field = %v", entry["url"])
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
}

func TestDebug_SuppressedAtInfoLevel(t *testing.T) {
	logger, buf := captureLogger(logrus.InfoLevel)

	logger.Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Errorf("debug output should be suppressed at info level, got %q", buf.String())
	}
}

func TestNilFields(t *testing.T) {
	logger, buf := captureLogger(logrus.InfoLevel)

	logger.Warn("no fields", nil)
	if !strings.Contains(buf.String(), "no fields") {
		t.Errorf("message missing from output: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"INFO", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"warning", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"bogus", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
