package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return slog.New(newConsoleHandler(buf, lvl))
}

func TestConsoleHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo)

	logger.Info("stored records", "script", "ep0101", "rows", 42)

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.Contains(line, " INFO ") {
		t.Fatalf("missing level label: %q", line)
	}
	if !strings.Contains(line, "stored records") {
		t.Fatalf("missing message: %q", line)
	}
	if !strings.Contains(line, "script=ep0101") || !strings.Contains(line, "rows=42") {
		t.Fatalf("missing attrs: %q", line)
	}
}

func TestConsoleHandlerComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo).With("component", "ingest")

	logger.Info("run complete")

	line := buf.String()
	if !strings.Contains(line, "ingest: run complete") {
		t.Fatalf("component should prefix the message: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as an attr: %q", line)
	}
}

func TestConsoleHandlerGroupFlattening(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo)

	logger.Info("fetched", slog.Group("sheet", slog.String("key", "abc"), slog.Int("gid", 3)))

	line := buf.String()
	if !strings.Contains(line, "sheet.key=abc") || !strings.Contains(line, "sheet.gid=3") {
		t.Fatalf("groups should flatten to dotted keys: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelInfo)

	logger.Info("classified", "text", "ここで CM")

	if !strings.Contains(buf.String(), `text="ここで CM"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, slog.LevelWarn)

	logger.Info("noise")
	logger.Warn("kept")

	out := buf.String()
	if strings.Contains(out, "noise") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Fatalf("warn line should survive: %q", out)
	}
}

func TestFanoutDuplicatesRecords(t *testing.T) {
	var a, b bytes.Buffer
	lvl := new(slog.LevelVar)
	handler := newFanoutHandler(newConsoleHandler(&a, lvl), newConsoleHandler(&b, lvl))
	logger := slog.New(handler)

	logger.Info("both sides")

	if !strings.Contains(a.String(), "both sides") || !strings.Contains(b.String(), "both sides") {
		t.Fatalf("record should reach both handlers: a=%q b=%q", a.String(), b.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should report disabled at every level")
	}
}
