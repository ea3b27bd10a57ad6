package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewDefaultsToTerminal(t *testing.T) {
	logger, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) error = %v", err)
	}
	if logger == nil {
		t.Fatal("New(nil) returned nil logger")
	}
}

func TestNewNoop(t *testing.T) {
	logger, err := New(&Config{Style: StyleNoop})
	if err != nil {
		t.Fatalf("New(noop) error = %v", err)
	}
	logger.Info("should be discarded")
}

func TestNewInvalidStyle(t *testing.T) {
	if _, err := New(&Config{Style: "bogus"}); err == nil {
		t.Fatal("expected error for invalid style")
	}
}

func TestNewLogfmtBuilds(t *testing.T) {
	logger, err := New(&Config{Style: StyleLogfmt, Level: "debug"})
	if err != nil {
		t.Fatalf("New(logfmt) error = %v", err)
	}
	logger.Info("hello", zap.Int("count", 3))
}
