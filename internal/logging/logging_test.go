package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLineHandler_RendersFixedFormat(t *testing.T) {
	var buf bytes.Buffer
	h := newLineHandler(&buf, slog.LevelInfo)
	logger := slog.New(h)

	logger.Info("flow seeded", "flow_id", 7)

	got := buf.String()
	if !strings.HasPrefix(got, time.Now().Format("01-02-2006")) {
		t.Fatalf("expected line to start with today's date, got %q", got)
	}
	if !strings.Contains(got, "|flow seeded") {
		t.Fatalf("expected message after the pipe separator, got %q", got)
	}
	if !strings.Contains(got, "flow_id=7") {
		t.Fatalf("expected attr rendered as key=value, got %q", got)
	}
}

func TestLineHandler_EnabledFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	h := newLineHandler(&buf, slog.LevelWarn)
	logger := slog.New(h)

	logger.Info("filtered out")
	if buf.Len() != 0 {
		t.Fatalf("expected info record to be dropped, got %q", buf.String())
	}

	logger.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatal("expected warn record to be written")
	}
}

func TestLineHandler_WithAttrsPersistsAcrossCalls(t *testing.T) {
	var buf bytes.Buffer
	h := newLineHandler(&buf, slog.LevelInfo).WithAttrs([]slog.Attr{slog.String("worker_id", "w0")})
	logger := slog.New(h)

	logger.Info("dispatched")
	if !strings.Contains(buf.String(), "worker_id=w0") {
		t.Fatalf("expected carried attr in output, got %q", buf.String())
	}
}
