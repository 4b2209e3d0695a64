package applog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type capturedRecord struct {
	level slog.Level
	msg   string
	group string
}

func newCapturingLogger(minLevel slog.Level) (*slog.Logger, *[]capturedRecord, *bytes.Buffer) {
	var out bytes.Buffer
	var captured []capturedRecord
	base := slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})
	tee := NewTeeHandler(base, minLevel, func(ts time.Time, level slog.Level, msg string, group string) {
		captured = append(captured, capturedRecord{level: level, msg: msg, group: group})
	})
	return slog.New(tee), &captured, &out
}

func TestTeeHandlerCapturesAboveThreshold(t *testing.T) {
	logger, captured, out := newCapturingLogger(slog.LevelInfo)

	logger.Debug("below threshold")
	logger.Info("at threshold")
	logger.Error("above threshold")

	if len(*captured) != 2 {
		t.Fatalf("captured %d records, want 2", len(*captured))
	}
	if (*captured)[0].msg != "at threshold" || (*captured)[1].msg != "above threshold" {
		t.Fatalf("captured = %+v", *captured)
	}
	// All three still reach the base handler.
	for _, msg := range []string{"below threshold", "at threshold", "above threshold"} {
		if !strings.Contains(out.String(), msg) {
			t.Fatalf("base output missing %q:\n%s", msg, out.String())
		}
	}
}

func TestTeeHandlerNilSink(t *testing.T) {
	var out bytes.Buffer
	base := slog.NewTextHandler(&out, nil)
	logger := slog.New(NewTeeHandler(base, slog.LevelInfo, nil))

	logger.Info("no sink")
	if !strings.Contains(out.String(), "no sink") {
		t.Fatal("record did not reach base handler")
	}
}

func TestTeeHandlerAccumulatesGroups(t *testing.T) {
	logger, captured, _ := newCapturingLogger(slog.LevelInfo)

	logger.WithGroup("recorder").WithGroup("stt").Info("grouped")

	if len(*captured) != 1 {
		t.Fatalf("captured %d records, want 1", len(*captured))
	}
	if (*captured)[0].group != "recorder.stt" {
		t.Fatalf("group = %q, want %q", (*captured)[0].group, "recorder.stt")
	}
}

func TestTeeHandlerWithAttrsKeepsSink(t *testing.T) {
	logger, captured, out := newCapturingLogger(slog.LevelInfo)

	logger.With("session", "abc").Info("with attrs")

	if len(*captured) != 1 {
		t.Fatalf("captured %d records, want 1", len(*captured))
	}
	if !strings.Contains(out.String(), "session=abc") {
		t.Fatalf("base output missing attr:\n%s", out.String())
	}
}

func TestTeeHandlerSurvivesSinkPanic(t *testing.T) {
	var out bytes.Buffer
	base := slog.NewTextHandler(&out, nil)
	tee := NewTeeHandler(base, slog.LevelInfo, func(time.Time, slog.Level, string, string) {
		panic("sink blew up")
	})
	logger := slog.New(tee)

	logger.Info("still logged") // must not panic the caller
	if !strings.Contains(out.String(), "still logged") {
		t.Fatal("record did not reach base handler")
	}
}

func TestTeeHandlerEnabledFollowsBase(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn})
	tee := NewTeeHandler(base, slog.LevelDebug, nil)

	if tee.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("Enabled should follow the base handler's level")
	}
	if !tee.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("Enabled should allow levels the base handler accepts")
	}
}
