// Package config provides hierarchical configuration loading for LabelForge.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the LabelForge service.
type Config struct {
	Server    Server    `yaml:"server"`
	NATS      NATS      `yaml:"nats"`
	Logging   Logging   `yaml:"logging"`
	Rate      Rate      `yaml:"rate"`
	Cache     Cache     `yaml:"cache"`
	Telemetry Telemetry `yaml:"telemetry"`
	Labeling  Labeling  `yaml:"labeling"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
}

// NATS holds NATS JetStream configuration.
type NATS struct {
	URL string `yaml:"url"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
	Async   bool   `yaml:"async"`
}

// Rate holds rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Cache holds in-process cache configuration.
type Cache struct {
	MaxSizeMB    int64         `yaml:"max_size_mb"`
	DashboardTTL time.Duration `yaml:"dashboard_ttl"`
}

// Telemetry holds OpenTelemetry export configuration.
type Telemetry struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Labeling holds workflow tuning knobs for the labeling engine.
type Labeling struct {
	// AnnotationThreshold is the annotation count that promotes a task
	// to awaiting_review.
	AnnotationThreshold int `yaml:"annotation_threshold"`
	// ReliabilityGate is the minimum reliability required to receive
	// high-priority tasks.
	ReliabilityGate float64 `yaml:"reliability_gate"`
	// DisagreementCutoff is the similarity below which a re-annotation
	// of a finalized task counts as a disagreement.
	DisagreementCutoff float64 `yaml:"disagreement_cutoff"`
	// SampleMinSeconds and SampleMaxSeconds bound the simulated
	// per-annotation labeling duration.
	SampleMinSeconds float64 `yaml:"sample_min_seconds"`
	SampleMaxSeconds float64 `yaml:"sample_max_seconds"`
}

// Defaults returns a Config with sensible default values for local development.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
		},
		NATS: NATS{
			URL: "nats://localhost:4222",
		},
		Logging: Logging{
			Level:   "info",
			Service: "labelforge",
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             100,
		},
		Cache: Cache{
			MaxSizeMB:    64,
			DashboardTTL: 5 * time.Second,
		},
		Telemetry: Telemetry{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
		Labeling: Labeling{
			AnnotationThreshold: 3,
			ReliabilityGate:     0.6,
			DisagreementCutoff:  0.7,
			SampleMinSeconds:    45,
			SampleMaxSeconds:    120,
		},
	}
}
