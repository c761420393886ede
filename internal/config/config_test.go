package config

import (
	"os"
	"testing"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	os.Setenv("HTTP_ADDRESS", "")
	os.Setenv("SERIAL_BAUD", "")
	os.Setenv("RING_CAPACITY", "")
	cfg := Load()
	if cfg.HTTPAddress == "" {
		t.Fatalf("expected default http address")
	}
	if cfg.SerialBaud != 115200 {
		t.Fatalf("expected default baud, got %d", cfg.SerialBaud)
	}
	if cfg.RingCapacity != 3600 {
		t.Fatalf("expected default ring capacity, got %d", cfg.RingCapacity)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("DISPATCH_DEPTH", "nope")
	defer os.Unsetenv("DISPATCH_DEPTH")
	cfg := Load()
	if cfg.DispatchDepth != 10 {
		t.Fatalf("expected fallback depth, got %d", cfg.DispatchDepth)
	}
}
