package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("SIMFILTER_TEST_TAXA", "/data/tax.db")
	p := write(t, "run.yaml", `
out_dir: results
threads: 4
evalue: 1e-10
species: Zea_mays
contaminants: [bacteria, fungi]
taxonomy: ${SIMFILTER_TEST_TAXA}
transcriptome: ${SIMFILTER_TEST_UNSET:-reads.faa}
alignments:
  - a.out
  - b.out
no_match_exit_code: 0
aligner:
  exe: /opt/diamond
  overwrite: true
logging:
  level: debug
  format: json
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "results", cfg.OutDir)
	assert.Equal(t, 4, cfg.Threads)
	assert.Equal(t, 1e-10, cfg.EValue)
	assert.Equal(t, DefaultCoverage, cfg.Coverage)
	assert.Equal(t, []string{"bacteria", "fungi"}, cfg.Contaminants)
	assert.Equal(t, "/data/tax.db", cfg.Taxonomy)
	assert.Equal(t, "reads.faa", cfg.Transcriptome)
	assert.Equal(t, []string{"a.out", "b.out"}, cfg.Alignments)
	require.NotNil(t, cfg.NoMatchExitCode)
	assert.Equal(t, 0, *cfg.NoMatchExitCode)
	assert.Equal(t, "diamond", cfg.Aligner.Backend)
	assert.Equal(t, "/opt/diamond", cfg.Aligner.Exe)
	assert.True(t, cfg.Aligner.Overwrite)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "Internal", cfg.InternalFrame)
}

func TestLoad_TOML(t *testing.T) {
	p := write(t, "run.toml", `
out_dir = "results"
evalue = 0.001
coverage = 80.0
databases = ["nr.dmnd"]
internal_frame = "Partial"

[aligner]
backend = "diamond"
extra_args = ["--tmpdir", "/scratch"]
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 0.001, cfg.EValue)
	assert.Equal(t, 80.0, cfg.Coverage)
	assert.Equal(t, []string{"nr.dmnd"}, cfg.Databases)
	assert.Equal(t, "Partial", cfg.InternalFrame)
	assert.Equal(t, []string{"--tmpdir", "/scratch"}, cfg.Aligner.ExtraArgs)
	assert.Equal(t, DefaultNoMatchExitCode, *cfg.NoMatchExitCode)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	_, err = Load(write(t, "run.ini", "threads=1"))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = Load(write(t, "run.yaml", "threads: [oops"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load(write(t, "run.yaml", "coverage: 120"))
	assert.ErrorContains(t, err, "invalid config: coverage must be between 0 and 100")
}

func TestApplyDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, runtime.NumCPU(), cfg.Threads)
	assert.Equal(t, DefaultEValue, cfg.EValue)
	assert.Equal(t, "diamond", cfg.Aligner.Exe)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, filepath.Join("outfiles", "similarity_search", "processed"), cfg.ProcessedDir())
	assert.Equal(t, filepath.Join("outfiles", "final_statistics.txt"), cfg.StatisticsFile())
}

func TestValidate(t *testing.T) {
	bad := -3
	tests := []struct {
		name string
		mut  func(*Config)
		want string
	}{
		{"threads", func(c *Config) { c.Threads = 0 }, "threads must be positive"},
		{"evalue", func(c *Config) { c.EValue = -1 }, "evalue must not be negative"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, `logging.format must be "console" or "json", got "xml"`},
		{"level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level must be one of"},
		{"exit", func(c *Config) { c.NoMatchExitCode = &bad }, "no_match_exit_code must be between 0 and 255"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mut(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tc.want)
		})
	}

	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestRequire(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.RequireFilter(), "taxonomy is required")
	cfg.Taxonomy = "tax.db"
	assert.ErrorContains(t, cfg.RequireFilter(), "transcriptome is required")
	cfg.Transcriptome = "t.faa"
	assert.NoError(t, cfg.RequireFilter())

	assert.ErrorContains(t, cfg.RequireSearch(), "at least one database")
	cfg.Databases = []string{"nr.dmnd"}
	assert.NoError(t, cfg.RequireSearch())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("SIMFILTER_X", "val")
	got := string(expandEnvVars([]byte("a=${SIMFILTER_X} b=${SIMFILTER_NOPE:-dflt} c=${SIMFILTER_NOPE}")))
	assert.Equal(t, "a=val b=dflt c=", got)
}
