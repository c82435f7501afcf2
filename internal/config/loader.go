package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "labelforge.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg. Unset and
// unparsable values leave the current config untouched.
func loadEnv(cfg *Config) {
	overlay(&cfg.Server.Port, "LABELFORGE_PORT", parseString)
	overlay(&cfg.Server.CORSOrigin, "LABELFORGE_CORS_ORIGIN", parseString)
	overlay(&cfg.NATS.URL, "NATS_URL", parseString)
	overlay(&cfg.Logging.Level, "LABELFORGE_LOG_LEVEL", parseString)
	overlay(&cfg.Logging.Service, "LABELFORGE_LOG_SERVICE", parseString)
	overlay(&cfg.Logging.Async, "LABELFORGE_LOG_ASYNC", strconv.ParseBool)
	overlay(&cfg.Rate.RequestsPerSecond, "LABELFORGE_RATE_RPS", parseFloat)
	overlay(&cfg.Rate.Burst, "LABELFORGE_RATE_BURST", strconv.Atoi)
	overlay(&cfg.Cache.MaxSizeMB, "LABELFORGE_CACHE_SIZE_MB", parseInt64)
	overlay(&cfg.Cache.DashboardTTL, "LABELFORGE_CACHE_DASHBOARD_TTL", time.ParseDuration)
	overlay(&cfg.Telemetry.Enabled, "LABELFORGE_OTEL_ENABLED", strconv.ParseBool)
	overlay(&cfg.Telemetry.Endpoint, "LABELFORGE_OTEL_ENDPOINT", parseString)
	overlay(&cfg.Labeling.AnnotationThreshold, "LABELFORGE_ANNOTATION_THRESHOLD", strconv.Atoi)
	overlay(&cfg.Labeling.ReliabilityGate, "LABELFORGE_RELIABILITY_GATE", parseFloat)
	overlay(&cfg.Labeling.DisagreementCutoff, "LABELFORGE_DISAGREEMENT_CUTOFF", parseFloat)
	overlay(&cfg.Labeling.SampleMinSeconds, "LABELFORGE_SAMPLE_MIN_SECONDS", parseFloat)
	overlay(&cfg.Labeling.SampleMaxSeconds, "LABELFORGE_SAMPLE_MAX_SECONDS", parseFloat)
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.NATS.URL == "" {
		return errors.New("nats.url is required")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Labeling.AnnotationThreshold < 1 {
		return errors.New("labeling.annotation_threshold must be >= 1")
	}
	if cfg.Labeling.ReliabilityGate < 0 || cfg.Labeling.ReliabilityGate > 1 {
		return errors.New("labeling.reliability_gate must be in [0, 1]")
	}
	if cfg.Labeling.SampleMinSeconds > cfg.Labeling.SampleMaxSeconds {
		return errors.New("labeling.sample_min_seconds must not exceed sample_max_seconds")
	}
	return nil
}

// overlay parses the env value into dst when the variable is set and
// the value parses cleanly.
func overlay[T any](dst *T, key string, parse func(string) (T, error)) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if parsed, err := parse(v); err == nil {
		*dst = parsed
	}
}

func parseString(s string) (string, error) { return s, nil }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func parseInt64(s string) (int64, error) { return strconv.ParseInt(s, 10, 64) }
