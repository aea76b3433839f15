package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diewo77/shirt-orders/internal/config"
	"go.uber.org/zap"
)

func TestSetupWritesRotatedFile(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := Setup(config.LoggerConfig{Mode: "production", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if zap.L() != logger {
		t.Fatalf("global logger not replaced")
	}
	zap.L().Info("order created", zap.Uint("order_id", 7))
	_ = logger.Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(b) == 0 {
		t.Fatalf("expected log file content")
	}
}

func TestSetupDevelopment(t *testing.T) {
	prev := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(prev) })

	logger, err := Setup(config.LoggerConfig{Mode: "development"})
	if err != nil || logger == nil {
		t.Fatalf("Setup: %v", err)
	}
	if !logger.Core().Enabled(zap.DebugLevel) {
		t.Errorf("development logger should enable debug")
	}
}
