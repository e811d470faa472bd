// Package logging wires the line-format rolling file appender every
// binary in this module starts with, plus a stderr fanout for local runs.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	ctxlog "github.com/arrowkit/flowcore/internal/log"
	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// lineHandler renders "MM-DD-YYYY HH:MM:SS|message" with attrs appended as
// "key=value" pairs, matching the line shape leaf scripts already expect in
// the shared log directory.
type lineHandler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

func newLineHandler(w io.Writer, level slog.Leveler) *lineHandler {
	return &lineHandler{w: w, level: level}
}

func (h *lineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	line := r.Time.Format("01-02-2006 15:04:05") + "|" + r.Message

	for _, a := range h.attrs {
		line += " " + a.Key + "=" + a.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		line += " " + a.Key + "=" + a.Value.String()
		return true
	})

	_, err := io.WriteString(h.w, line+"\n")
	return err
}

func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &lineHandler{w: h.w, level: h.level, attrs: merged}
}

func (h *lineHandler) WithGroup(_ string) slog.Handler {
	return h
}

// New builds the logger every cmd/ binary uses: a rolling file appender
// under logDir rendering the fixed line format, fanned out to a tinted
// stderr handler at INFO for local/console visibility, both wrapped in the
// request-ID-enriching context handler.
func New(logDir, fileName string, level slog.Level) *slog.Logger {
	fileWriter := &lumberjack.Logger{
		Filename:   logDir + "/" + fileName,
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
		Compress:   true,
	}

	file := newLineHandler(fileWriter, level)
	console := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	})

	return slog.New(ctxlog.NewContextHandler(&fanoutHandler{handlers: []slog.Handler{file, console}}))
}

// fanoutHandler dispatches every record to all inner handlers, skipping
// ones that are disabled for the record's level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		next[i] = h.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
