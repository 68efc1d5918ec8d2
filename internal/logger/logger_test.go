package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{"WARN", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With("session", "default")

	log.Debug("hidden")
	log.Warn("corrupt session discarded", "bytes", 12)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["session"] != "default" {
		t.Errorf("session field = %v, want default", fields["session"])
	}
	if fields["bytes"] != int64(12) {
		t.Errorf("bytes field = %v (%T), want 12", fields["bytes"], fields["bytes"])
	}
}

func TestNew(t *testing.T) {
	if _, err := New("dev", "nope"); err == nil {
		t.Error("New with bad level: expected error")
	}
	log, err := New("prod", "warn")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("dropped")
	Nop().Error("dropped")
}
