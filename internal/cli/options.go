// internal/cli/options.go
package cli

import (
	"github.com/spf13/cobra"

	"simfilter/internal/cliutil"
	"simfilter/internal/config"
	"simfilter/internal/output"
)

// Options holds all CLI flags. Flags the user did not set leave the
// configuration file's values alone.
type Options struct {
	// Global
	ConfigFile string
	OutDir     string
	Threads    int
	LogLevel   string
	LogFormat  string

	// Filter input
	Taxonomy      string
	Transcriptome string
	Alignments    []string
	Species       string
	Contaminants  []string
	Uninformative []string
	InternalFrame string

	// Filter
	EValue float64

	// Search
	Databases  []string
	Coverage   float64
	Protein    bool
	Overwrite  bool
	Aligner    string
	AlignerExe string

	// Output
	ReportFormat    string
	MetricsFile     string
	NoMatchExitCode int
	Quiet           bool
}

// Config loads the configuration file (if any) and applies every flag the
// user set on cmd. The result has defaults applied and is validated.
func (o *Options) Config(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(o.ConfigFile); err != nil {
			return config.Config{}, &UsageError{Err: err}
		}
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("out-dir") {
		cfg.OutDir = o.OutDir
	}
	if changed("threads") {
		cfg.Threads = o.Threads
	}
	if changed("log-level") {
		cfg.Logging.Level = o.LogLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = o.LogFormat
	}
	if changed("taxonomy") {
		cfg.Taxonomy = o.Taxonomy
	}
	if changed("transcriptome") {
		cfg.Transcriptome = o.Transcriptome
	}
	if changed("alignment") {
		paths, err := cliutil.ExpandGlobs(o.Alignments)
		if err != nil {
			return config.Config{}, &UsageError{Err: err}
		}
		cfg.Alignments = paths
	}
	if changed("species") {
		cfg.Species = o.Species
	}
	if changed("contam") {
		cfg.Contaminants = cliutil.SplitList(o.Contaminants)
	}
	if changed("uninformative") {
		cfg.Uninformative = cliutil.SplitList(o.Uninformative)
	}
	if changed("internal-frame") {
		cfg.InternalFrame = o.InternalFrame
	}
	if changed("evalue") {
		cfg.EValue = o.EValue
	}
	if changed("database") {
		cfg.Databases = o.Databases
	}
	if changed("coverage") {
		cfg.Coverage = o.Coverage
	}
	if changed("protein") {
		cfg.Protein = o.Protein
	}
	if changed("overwrite") {
		cfg.Aligner.Overwrite = o.Overwrite
	}
	if changed("aligner") {
		cfg.Aligner.Backend = o.Aligner
		if !changed("aligner-exe") && o.ConfigFile == "" {
			cfg.Aligner.Exe = o.Aligner
		}
	}
	if changed("aligner-exe") {
		cfg.Aligner.Exe = o.AlignerExe
	}
	if changed("metrics-file") {
		cfg.MetricsFile = o.MetricsFile
	}
	if changed("no-match-exit-code") {
		v := o.NoMatchExitCode
		cfg.NoMatchExitCode = &v
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, &UsageError{Err: err}
	}
	switch o.ReportFormat {
	case output.FormatText, output.FormatJSON:
	default:
		return config.Config{}, usagef("--format must be %q or %q, got %q", output.FormatText, output.FormatJSON, o.ReportFormat)
	}
	return cfg, nil
}
