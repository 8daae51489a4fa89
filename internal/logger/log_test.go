// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("new should successfully create a logger", func(t *testing.T) {
		l := New(slog.LevelInfo)
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("logger logs successfully with different levels", func(t *testing.T) {
		tests := []struct {
			name        string
			level       slog.Level
			shouldDebug bool
			shouldInfo  bool
			shouldWarn  bool
			shouldError bool
		}{
			{"DEBUG", slog.LevelDebug, true, true, true, true},
			{"INFO", slog.LevelInfo, false, true, true, true},
			{"WARN", slog.LevelWarn, false, false, true, true},
			{"ERROR", slog.LevelError, false, false, false, true},
		}

		for _, tc := range tests {
			buf := bytes.NewBuffer(nil)
			t.Run(tc.name, func(t *testing.T) {
				l := NewLogger(tc.level, buf)
				l.Debug("debug")
				l.Info("info")
				l.Warn("warn")
				l.Error("error")

				if tc.shouldDebug && !bytes.Contains(buf.Bytes(), []byte("debug")) {
					t.Errorf("expected debug message to be logged")
				}
				if !tc.shouldDebug && bytes.Contains(buf.Bytes(), []byte("debug")) {
					t.Errorf("did not expect debug message to be logged")
				}
				if tc.shouldInfo && !bytes.Contains(buf.Bytes(), []byte("info")) {
					t.Errorf("expected info message to be logged")
				}
				if !tc.shouldInfo && bytes.Contains(buf.Bytes(), []byte("info")) {
					t.Errorf("did not expect info message to be logged")
				}
				if tc.shouldWarn && !bytes.Contains(buf.Bytes(), []byte("warn")) {
					t.Errorf("expected warn message to be logged")
				}
				if !tc.shouldWarn && bytes.Contains(buf.Bytes(), []byte("warn")) {
					t.Errorf("did not expect warn message to be logged")
				}
				if tc.shouldError && !bytes.Contains(buf.Bytes(), []byte("error")) {
					t.Errorf("expected error message to be logged")
				}
				if !tc.shouldError && bytes.Contains(buf.Bytes(), []byte("error")) {
					t.Errorf("did not expect error message to be logged")
				}
			})
		}
	})
}

func TestErr(t *testing.T) {
	t.Run("error attributes should be logged", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelDebug, buf)
		want := "intentionally failing"
		err := errors.New(want)
		l.Error("this is a test", Err(err))

		if !bytes.Contains(buf.Bytes(), []byte(`error="`+want+`"`)) {
			t.Errorf("expected error message to contain %q, got: %q", want, buf.String())
		}
	})
}

func TestLogger_With(t *testing.T) {
	t.Run("source attributes are logged with every message", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		l := NewLogger(slog.LevelDebug, buf).With(slog.String("source", "metno"))
		l.Info("fetching weather", slog.String("endpoint", "complete"))
		l.Warn("failed to fetch sunrise", Err(errors.New("timeout")))

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		if len(lines) != 2 {
			t.Fatalf("expected 2 log lines, got %d: %q", len(lines), buf.String())
		}
		for _, line := range lines {
			if !bytes.Contains(line, []byte("source=metno")) {
				t.Errorf("expected log line to contain source attribute, got: %q", line)
			}
		}
		if !bytes.Contains(lines[1], []byte("error=timeout")) {
			t.Errorf("expected log line to contain error attribute, got: %q", lines[1])
		}
	})
	t.Run("derived loggers do not change the parent", func(t *testing.T) {
		buf := bytes.NewBuffer(nil)
		parent := NewLogger(slog.LevelDebug, buf)
		_ = parent.With(slog.String("source", "owm"))
		parent.Info("resolving location")
		if bytes.Contains(buf.Bytes(), []byte("source=")) {
			t.Errorf("expected parent logger without source attribute, got: %q", buf.String())
		}
	})
}
