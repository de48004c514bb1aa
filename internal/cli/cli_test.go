package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simfilter/internal/config"
	"simfilter/internal/version"
)

type recorder struct {
	filter *config.Config
	search *config.Config
	dump   string
	index  string
	opts   *Options
}

func (r *recorder) handlers() Handlers {
	return Handlers{
		Filter: func(_ context.Context, cfg config.Config, o *Options, _ IO) error {
			r.filter, r.opts = &cfg, o
			return nil
		},
		Search: func(_ context.Context, cfg config.Config, o *Options, _ IO) error {
			r.search, r.opts = &cfg, o
			return nil
		},
		BuildTaxonomy: func(_ context.Context, dump, index string, _ IO) error {
			r.dump, r.index = dump, index
			return nil
		},
	}
}

func execute(t *testing.T, r *recorder, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(r.handlers())
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func TestFilter_FlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("evalue: 1e-3\nthreads: 2\ntaxonomy: file.db\ncontaminants: [fungi]\n"), 0o644))

	r := &recorder{}
	_, err := execute(t, r, "filter", "--config", cfgPath,
		"--transcriptome", "t.faa", "--contam", "bacteria,insecta", "-t", "6",
		"--alignment", "a.out", "b.out")
	require.NoError(t, err)
	require.NotNil(t, r.filter)

	cfg := r.filter
	assert.Equal(t, 1e-3, cfg.EValue, "unset flag keeps file value")
	assert.Equal(t, 6, cfg.Threads)
	assert.Equal(t, "file.db", cfg.Taxonomy)
	assert.Equal(t, "t.faa", cfg.Transcriptome)
	assert.Equal(t, []string{"bacteria", "insecta"}, cfg.Contaminants)
	assert.Equal(t, []string{"a.out", "b.out"}, cfg.Alignments)
	assert.Equal(t, "text", r.opts.ReportFormat)
}

func TestFilter_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing taxonomy", []string{"filter", "--transcriptome", "t.faa"}},
		{"bad flag", []string{"filter", "--bogus"}},
		{"bad format", []string{"filter", "--taxonomy", "x", "--transcriptome", "t", "--format", "xml"}},
		{"bad coverage", []string{"search", "--coverage", "200", "--transcriptome", "t", "-d", "nr"}},
		{"unknown command", []string{"frobnicate"}},
		{"search args", []string{"search", "extra"}},
		{"taxonomy build", []string{"taxonomy", "build", "--dump", "d.tsv"}},
		{"missing config", []string{"filter", "--config", "/nonexistent/run.yaml"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := &recorder{}
			_, err := execute(t, r, tc.args...)
			var ue *UsageError
			require.True(t, errors.As(err, &ue), "want UsageError, got %v", err)
			assert.Nil(t, r.filter)
			assert.Nil(t, r.search)
		})
	}
}

func TestSearch(t *testing.T) {
	r := &recorder{}
	_, err := execute(t, r, "search", "--transcriptome", "t.faa", "-d", "nr.dmnd", "-d", "sp.dmnd",
		"--overwrite", "--aligner-exe", "/opt/diamond", "--coverage", "80")
	require.NoError(t, err)
	require.NotNil(t, r.search)
	assert.Equal(t, []string{"nr.dmnd", "sp.dmnd"}, r.search.Databases)
	assert.True(t, r.search.Aligner.Overwrite)
	assert.Equal(t, "/opt/diamond", r.search.Aligner.Exe)
	assert.Equal(t, "diamond", r.search.Aligner.Backend)
	assert.Equal(t, 80.0, r.search.Coverage)
}

func TestTaxonomyBuild(t *testing.T) {
	r := &recorder{}
	_, err := execute(t, r, "taxonomy", "build", "--dump", "d.tsv", "--index", "t.db")
	require.NoError(t, err)
	assert.Equal(t, "d.tsv", r.dump)
	assert.Equal(t, "t.db", r.index)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, &recorder{}, "version")
	require.NoError(t, err)
	assert.Equal(t, "simfilter version "+version.Version+"\n", out)

	out, err = execute(t, &recorder{}, "--version")
	require.NoError(t, err)
	assert.Equal(t, "simfilter version "+version.Version+"\n", out)
}

func TestHelp(t *testing.T) {
	out, err := execute(t, &recorder{})
	require.NoError(t, err)
	assert.Contains(t, out, "filter")
	assert.Contains(t, out, "taxonomy")
}
