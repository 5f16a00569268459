package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewHonoursModeAndLevel(t *testing.T) {
	cases := []struct {
		mode, level string
		debug, info bool
	}{
		{"production", "", false, true},
		{"development", "", true, true},
		{"production", "debug", true, true},
		{"development", "warn", false, false},
	}
	for _, tc := range cases {
		l, err := New(tc.mode, tc.level)
		if err != nil {
			t.Fatalf("New(%q,%q): %v", tc.mode, tc.level, err)
		}
		if got := l.Core().Enabled(zapcore.DebugLevel); got != tc.debug {
			t.Fatalf("New(%q,%q) debug enabled = %v", tc.mode, tc.level, got)
		}
		if got := l.Core().Enabled(zapcore.InfoLevel); got != tc.info {
			t.Fatalf("New(%q,%q) info enabled = %v", tc.mode, tc.level, got)
		}
	}
}

func TestNewNop(t *testing.T) {
	l, err := New("nop", "debug")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected nop logger to discard everything")
	}
}

func TestNewRejectsUnknownInput(t *testing.T) {
	if _, err := New("verbose", ""); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if _, err := New("production", "chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
