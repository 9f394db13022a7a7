package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := parseLevel(tc.input); got != tc.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewWritesToLogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "cardwatch.log")
	logger, err := New(Options{Level: "info", Format: "console", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("cycle complete", Args(Int(FieldCycle, 3), Int(FieldBatchSize, 2))...)

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "cycle complete") {
		t.Errorf("log line missing message: %q", line)
	}
	if !strings.Contains(line, "cycle=3") || !strings.Contains(line, "batch_size=2") {
		t.Errorf("log line missing attributes: %q", line)
	}
}

func TestConsoleHandlerPromotesComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	NewComponentLogger(logger, "monitor").Warn("listing failed", Args(String(FieldEventType, "remote_listing_failed"))...)

	line := buf.String()
	if !strings.Contains(line, "WARN monitor: listing failed") {
		t.Errorf("component not promoted into prefix: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should not render as key=value: %q", line)
	}
	if !strings.Contains(line, "event_type=remote_listing_failed") {
		t.Errorf("missing event_type attribute: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar, false))

	logger.Info("noted", Args(String("name", "prova aluno 01.png"))...)

	if !strings.Contains(buf.String(), `name="prova aluno 01.png"`) {
		t.Errorf("expected quoted value, got %q", buf.String())
	}
}

func TestNoopHandlerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("noop logger should report disabled at every level")
	}
}
