// Package config loads run settings from YAML or TOML files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"simfilter/core/hit"
)

// Config holds every setting of a run. CLI flags override file values.
type Config struct {
	OutDir          string   `yaml:"out_dir" toml:"out_dir"`
	Threads         int      `yaml:"threads" toml:"threads"`
	EValue          float64  `yaml:"evalue" toml:"evalue"`
	Coverage        float64  `yaml:"coverage" toml:"coverage"` // aligner --query-cover
	Species         string   `yaml:"species" toml:"species"`
	Contaminants    []string `yaml:"contaminants" toml:"contaminants"`
	Uninformative   []string `yaml:"uninformative" toml:"uninformative"`
	InternalFrame   string   `yaml:"internal_frame" toml:"internal_frame"`
	Taxonomy        string   `yaml:"taxonomy" toml:"taxonomy"` // .db/.sqlite index or TSV dump
	Transcriptome   string   `yaml:"transcriptome" toml:"transcriptome"`
	Alignments      []string `yaml:"alignments" toml:"alignments"`
	Databases       []string `yaml:"databases" toml:"databases"`
	Protein         bool     `yaml:"protein" toml:"protein"`
	MetricsFile     string   `yaml:"metrics_file" toml:"metrics_file"`
	NoMatchExitCode *int     `yaml:"no_match_exit_code" toml:"no_match_exit_code"`

	Aligner AlignerConfig `yaml:"aligner" toml:"aligner"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// AlignerConfig selects and parameterizes the similarity search backend.
type AlignerConfig struct {
	Backend   string   `yaml:"backend" toml:"backend"`
	Exe       string   `yaml:"exe" toml:"exe"`
	Overwrite bool     `yaml:"overwrite" toml:"overwrite"`
	ExtraArgs []string `yaml:"extra_args" toml:"extra_args"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`   // debug, info, warn, error
	Format string `yaml:"format" toml:"format"` // console, json
}

// Defaults.
const (
	DefaultOutDir          = "outfiles"
	DefaultEValue          = 1e-5
	DefaultCoverage        = 50.0
	DefaultBackend         = "diamond"
	DefaultNoMatchExitCode = 1
)

// Load reads configuration from a .yaml/.yml or .toml file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config %s: unsupported extension %q (want .yaml, .yml or .toml)", path, filepath.Ext(path))
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with only defaults applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.EValue <= 0 {
		c.EValue = DefaultEValue
	}
	if c.Coverage <= 0 {
		c.Coverage = DefaultCoverage
	}
	if c.InternalFrame == "" {
		c.InternalFrame = hit.DefaultInternalFrame
	}
	if c.NoMatchExitCode == nil {
		v := DefaultNoMatchExitCode
		c.NoMatchExitCode = &v
	}
	if c.Aligner.Backend == "" {
		c.Aligner.Backend = DefaultBackend
	}
	if c.Aligner.Exe == "" {
		c.Aligner.Exe = c.Aligner.Backend
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Threads <= 0 {
		return fmt.Errorf("threads must be positive, got %d", c.Threads)
	}
	if c.EValue < 0 {
		return fmt.Errorf("evalue must not be negative, got %g", c.EValue)
	}
	if c.Coverage < 0 || c.Coverage > 100 {
		return fmt.Errorf("coverage must be between 0 and 100, got %g", c.Coverage)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.NoMatchExitCode != nil && (*c.NoMatchExitCode < 0 || *c.NoMatchExitCode > 255) {
		return fmt.Errorf("no_match_exit_code must be between 0 and 255, got %d", *c.NoMatchExitCode)
	}
	return nil
}

// RequireFilter checks the inputs the filter stage cannot run without.
func (c *Config) RequireFilter() error {
	if c.Taxonomy == "" {
		return fmt.Errorf("taxonomy is required")
	}
	if c.Transcriptome == "" {
		return fmt.Errorf("transcriptome is required")
	}
	return nil
}

// RequireSearch checks the inputs the search stage cannot run without.
func (c *Config) RequireSearch() error {
	if c.Transcriptome == "" {
		return fmt.Errorf("transcriptome is required")
	}
	if len(c.Databases) == 0 {
		return fmt.Errorf("at least one database is required")
	}
	return nil
}

// SearchDir is where aligner outputs are written and discovered.
func (c *Config) SearchDir() string { return filepath.Join(c.OutDir, "similarity_search") }

// ProcessedDir is the root of the per-database filter outputs.
func (c *Config) ProcessedDir() string { return filepath.Join(c.SearchDir(), "processed") }

// StatisticsFile is the report file appended to on every run.
func (c *Config) StatisticsFile() string { return filepath.Join(c.OutDir, "final_statistics.txt") }

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
