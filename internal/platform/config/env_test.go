package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Port     int    `env:"PAYDESK_TEST_PORT" envDefault:"123"`
	Currency string `env:"PAYDESK_TEST_CURRENCY" envDefault:"KSh"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
	if cfg.Currency != "KSh" {
		t.Fatalf("expected default currency KSh, got %q", cfg.Currency)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("PAYDESK_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

