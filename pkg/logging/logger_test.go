package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	tests := []struct {
		name      string
		level     string
		format    string
		wantDebug bool
	}{
		{"json info", "info", "json", false},
		{"text debug", "debug", "text", true},
		{"bad level falls back to info", "loud", "json", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := InitLogger(tt.level, tt.format); err != nil {
				t.Fatalf("InitLogger() error = %v", err)
			}
			if got := Logger.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestGetLoggerFallback(t *testing.T) {
	old := Logger
	defer func() { Logger = old }()

	Logger = nil
	if GetLogger() == nil {
		t.Fatal("GetLogger() returned nil")
	}
	if WithComponent("test") == nil {
		t.Fatal("WithComponent() returned nil")
	}
}
