// Package config loads run configuration the way gohypo's internal/config
// does: environment variables (optionally from a .env file via godotenv)
// provide the scalar knobs, and an optional YAML file supplies the
// structured parts environment variables don't fit well — pattern catalog
// overrides, forced static/dynamic path lists, percentile sets.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"docsynth/internal/errors"
)

// Config is the complete run configuration for the profile/synthesize/
// generate/validate pipeline (spec §6).
type Config struct {
	Source    SourceConfig
	Output    OutputConfig
	Profiling ProfilingConfig
	Dynamic   DynamicKeyConfig
	Database  DatabaseConfig
	Server    ServerConfig
}

// SourceConfig names the input document stream (spec §1: the
// DocumentSource collaborator is out of scope to implement, but the CLI
// still needs to know where to read from for the file-backed reference
// adapter).
type SourceConfig struct {
	Path   string // file the CLI reads as NDJSON; "-" means stdin
	Format string // "ndjson" | "json-array"; validated, but the CLI reads every source as NDJSON
}

// OutputConfig names where the three artifacts and any generated stream
// land (spec §6).
type OutputConfig struct {
	Dir          string // directory for inferred.schema.json, generation.schema.json, constraints.json
	GeneratedOut string // NDJSON/JSON-array destination for `generate`; "-" means stdout
	Format       string // "ndjson" | "json-array", for generated output
}

// ProfilingConfig tunes the profiler aggregator (spec §4.6).
type ProfilingConfig struct {
	Percentiles     []float64 // e.g. [0.5, 0.95, 0.99]
	SampleRetention int       // max retained sample values per field
	SizeProxy       string    // "leafFieldCount" | "arrayLengthSum" | "byteSize"
}

// DynamicKeyConfig tunes the dynamic-key accumulator (spec §4.2/§4.4).
type DynamicKeyConfig struct {
	MinKeyCountForPromotion int      // spec §4.2 default 20
	MinConfidence           float64  // spec §4.2 default 0.7
	ForceStatic             []string // paths always treated as static regardless of score
	ForceDynamic            []string // paths always treated as dynamic regardless of score
	PatternOverrides        []PatternOverride
}

// PatternOverride replaces or augments an entry in the default pattern
// catalog (spec §4.1).
type PatternOverride struct {
	Name  string `yaml:"name"`
	Regex string `yaml:"regex"`
}

// DatabaseConfig holds the optional Postgres artifact repository's
// connection settings (SPEC_FULL.md supplement 4). Empty URL disables it
// in favor of the file-backed repository.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds the optional HTTP front door's settings
// (SPEC_FULL.md supplement 3). Port defaults to "8080" when PORT is unset.
type ServerConfig struct {
	Port    string
	GinMode string
}

// dynamicYAML mirrors the subset of Config a YAML override file may supply.
type dynamicYAML struct {
	Dynamic struct {
		MinKeyCountForPromotion int               `yaml:"min_key_count_for_promotion"`
		MinConfidence           float64           `yaml:"min_confidence"`
		ForceStatic             []string          `yaml:"force_static"`
		ForceDynamic            []string          `yaml:"force_dynamic"`
		PatternOverrides        []PatternOverride `yaml:"pattern_overrides"`
	} `yaml:"dynamic"`
	Profiling struct {
		Percentiles     []float64 `yaml:"percentiles"`
		SampleRetention int       `yaml:"sample_retention"`
		SizeProxy       string    `yaml:"size_proxy"`
	} `yaml:"profiling"`
}

// Load reads environment variables (after attempting to load a .env file,
// ignoring its absence) and an optional YAML override file named by
// DOCSYNTH_CONFIG_FILE, then validates the result.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = godotenv.Load(".env")
	}

	cfg := &Config{
		Source: SourceConfig{
			Path:   getEnvOrDefault("DOCSYNTH_SOURCE_PATH", "-"),
			Format: getEnvOrDefault("DOCSYNTH_SOURCE_FORMAT", "ndjson"),
		},
		Output: OutputConfig{
			Dir:          getEnvOrDefault("DOCSYNTH_OUTPUT_DIR", "./artifacts"),
			GeneratedOut: getEnvOrDefault("DOCSYNTH_GENERATED_OUT", "-"),
			Format:       getEnvOrDefault("DOCSYNTH_GENERATED_FORMAT", "ndjson"),
		},
		Profiling: ProfilingConfig{
			Percentiles:     []float64{0.5, 0.95, 0.99},
			SampleRetention: getEnvIntOrDefault("DOCSYNTH_SAMPLE_RETENTION", 20),
			SizeProxy:       getEnvOrDefault("DOCSYNTH_SIZE_PROXY", "leafFieldCount"),
		},
		Dynamic: DynamicKeyConfig{
			MinKeyCountForPromotion: getEnvIntOrDefault("DOCSYNTH_DYNAMIC_MIN_KEY_COUNT", 20),
			MinConfidence:           getEnvFloatOrDefault("DOCSYNTH_DYNAMIC_MIN_CONFIDENCE", 0.7),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
	}

	if path := os.Getenv("DOCSYNTH_CONFIG_FILE"); path != "" {
		if err := applyYAMLOverrides(cfg, path); err != nil {
			return nil, errors.Wrapf(err, "loading config overrides from %s", path)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func applyYAMLOverrides(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var y dynamicYAML
	if err := yaml.Unmarshal(raw, &y); err != nil {
		return err
	}
	if y.Dynamic.MinKeyCountForPromotion > 0 {
		cfg.Dynamic.MinKeyCountForPromotion = y.Dynamic.MinKeyCountForPromotion
	}
	if y.Dynamic.MinConfidence > 0 {
		cfg.Dynamic.MinConfidence = y.Dynamic.MinConfidence
	}
	cfg.Dynamic.ForceStatic = y.Dynamic.ForceStatic
	cfg.Dynamic.ForceDynamic = y.Dynamic.ForceDynamic
	cfg.Dynamic.PatternOverrides = y.Dynamic.PatternOverrides

	if len(y.Profiling.Percentiles) > 0 {
		cfg.Profiling.Percentiles = y.Profiling.Percentiles
	}
	if y.Profiling.SampleRetention > 0 {
		cfg.Profiling.SampleRetention = y.Profiling.SampleRetention
	}
	if y.Profiling.SizeProxy != "" {
		cfg.Profiling.SizeProxy = y.Profiling.SizeProxy
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Output.Dir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	switch cfg.Source.Format {
	case "ndjson", "json-array":
	default:
		return errors.ConfigInvalid("source format must be ndjson or json-array")
	}
	switch cfg.Output.Format {
	case "ndjson", "json-array":
	default:
		return errors.ConfigInvalid("output format must be ndjson or json-array")
	}
	if cfg.Dynamic.MinKeyCountForPromotion <= 0 {
		return errors.ConfigInvalid("dynamic key min count for promotion must be positive")
	}
	if cfg.Dynamic.MinConfidence <= 0 || cfg.Dynamic.MinConfidence > 1 {
		return errors.ConfigInvalid("dynamic key min confidence must be in (0,1]")
	}
	for _, p := range cfg.Profiling.Percentiles {
		if p <= 0 || p >= 1 {
			return errors.ConfigInvalid("profiling percentiles must be in (0,1)")
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if iv, err := strconv.Atoi(v); err == nil {
			return iv
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if fv, err := strconv.ParseFloat(v, 64); err == nil {
			return fv
		}
	}
	return defaultValue
}
