package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Server.Port)
	}
	if cfg.Labeling.AnnotationThreshold != 3 {
		t.Fatalf("expected default threshold 3, got %d", cfg.Labeling.AnnotationThreshold)
	}
	if cfg.Labeling.ReliabilityGate != 0.6 {
		t.Fatalf("expected default gate 0.6, got %v", cfg.Labeling.ReliabilityGate)
	}
	if cfg.Cache.DashboardTTL != 5*time.Second {
		t.Fatalf("expected default dashboard TTL, got %v", cfg.Cache.DashboardTTL)
	}
}

func TestLoadFrom_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labelforge.yaml")
	yaml := `
server:
  port: "9090"
labeling:
  annotation_threshold: 5
  reliability_gate: 0.8
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected yaml port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Labeling.AnnotationThreshold != 5 {
		t.Fatalf("expected yaml threshold 5, got %d", cfg.Labeling.AnnotationThreshold)
	}
	if cfg.Labeling.ReliabilityGate != 0.8 {
		t.Fatalf("expected yaml gate 0.8, got %v", cfg.Labeling.ReliabilityGate)
	}
	// untouched fields keep defaults
	if cfg.NATS.URL != "nats://localhost:4222" {
		t.Fatalf("expected default NATS URL, got %q", cfg.NATS.URL)
	}
}

func TestLoadFrom_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labelforge.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv("LABELFORGE_PORT", "7070")
	t.Setenv("LABELFORGE_RELIABILITY_GATE", "0.75")
	t.Setenv("LABELFORGE_LOG_ASYNC", "true")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("expected env port 7070, got %q", cfg.Server.Port)
	}
	if cfg.Labeling.ReliabilityGate != 0.75 {
		t.Fatalf("expected env gate 0.75, got %v", cfg.Labeling.ReliabilityGate)
	}
	if !cfg.Logging.Async {
		t.Fatal("expected async logging enabled from env")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Server.Port = "" }},
		{"empty nats url", func(c *Config) { c.NATS.URL = "" }},
		{"zero burst", func(c *Config) { c.Rate.Burst = 0 }},
		{"zero threshold", func(c *Config) { c.Labeling.AnnotationThreshold = 0 }},
		{"gate above one", func(c *Config) { c.Labeling.ReliabilityGate = 1.5 }},
		{"inverted sample bounds", func(c *Config) {
			c.Labeling.SampleMinSeconds = 200
			c.Labeling.SampleMaxSeconds = 100
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := validate(&cfg); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := Defaults()
	if err := validate(&cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
