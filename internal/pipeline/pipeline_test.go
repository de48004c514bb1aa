package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"simfilter/core/classify"
	"simfilter/core/enrich"
	"simfilter/core/errs"
	"simfilter/core/hit"
	"simfilter/core/taxonomy"
	"simfilter/core/transcriptome"
	"simfilter/internal/logger"
	"simfilter/internal/metrics"
	"simfilter/internal/writers"
)

const inputLineage = "cellular organisms; Eukaryota; Viridiplantae; Poaceae; Zea"

func row(q, s string, evalue, cov float64, title string) string {
	return strings.Join([]string{
		q, s, "80", "100", "5", "0", "1", "100", "1", "100",
		strconv.FormatFloat(evalue, 'g', -1, 64), "60", strconv.FormatFloat(cov, 'g', -1, 64), title,
	}, "\t")
}

func fixture(t *testing.T) (dir string, in Inputs, dbs []string) {
	t.Helper()
	dir = t.TempDir()

	taxa := taxonomy.New(map[string]taxonomy.Entry{
		"zea mays":         {TaxID: "4577", Lineage: "cellular organisms; Eukaryota; Viridiplantae; Poaceae; Zea"},
		"oryza sativa":     {TaxID: "4530", Lineage: "cellular organisms; Eukaryota; Viridiplantae; Poaceae; Oryza"},
		"escherichia coli": {TaxID: "562", Lineage: "cellular organisms; Bacteria; Escherichia"},
	})
	rules := classify.NewRules([]string{"bacteria"}, classify.DefaultUninformative)
	in = Inputs{
		Enricher: enrich.New(taxa, rules, inputLineage),
		Queries: transcriptome.NewStore([]transcriptome.Query{
			{ID: "q1", Header: "q1 frame=Complete", Seq: "MKV", Frame: "Complete", Protein: true},
			{ID: "q2", Header: "q2 frame=Internal", Seq: "MAA", Frame: "Internal", Protein: true},
			{ID: "q3", Header: "q3", Seq: "MTT", Protein: true},
		}),
	}

	// nr: q1 has a contaminant and a plant hit with comparable e-values;
	// q2 only passes through an outranked duplicate.
	nr := strings.Join([]string{
		row("q1", "ecoli_1", 1e-50, 90, "protein X [Escherichia coli]"),
		row("q1", "zea_1", 1e-48, 80, "protein X [Zea mays]"),
		row("q2", "rice_1", 1e-30, 70, "hypothetical protein [Oryza sativa]"),
		row("q2", "rice_2", 1e-31, 70, "kinase [Oryza sativa]"),
		row("q2", "rice_3", 1, 70, "kinase [Oryza sativa]"),
	}, "\n") + "\n"
	// sp: q1 wins here on coverage over the nr winner.
	sp := row("q1", "sp|P1|ZEA", 1e-10, 99, "Protein X OS=Zea mays OX=4577 GN=x PE=1 SV=1") + "\n"

	search := filepath.Join(dir, "similarity_search")
	require.NoError(t, os.MkdirAll(search, 0o755))
	dbs = []string{filepath.Join(search, "blastp_t_nr.out"), filepath.Join(search, "blastp_t_sp.out")}
	require.NoError(t, os.WriteFile(dbs[0], []byte(nr), 0o644))
	require.NoError(t, os.WriteFile(dbs[1], []byte(sp), 0o644))
	return dir, in, dbs
}

func TestRun_EndToEnd(t *testing.T) {
	dir, in, dbs := fixture(t)
	in.Metrics = metrics.New()
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	sess := NewSession(dbs)
	processed := filepath.Join(dir, "similarity_search", "processed")
	res, err := Run(ctx, sess, Config{
		Threads: 4, EValue: 1e-5, Params: hit.DefaultParams(), ProcessedDir: processed, Title: "Similarity Search - diamond",
	}, in)
	require.NoError(t, err)

	require.Len(t, res.Databases, 2)
	nr := res.Databases[0]
	assert.Equal(t, dbs[0], nr.Path)
	assert.Equal(t, 5, nr.Counters.Total)
	assert.Equal(t, 1, nr.Counters.EValueRejected)
	assert.Equal(t, 2, nr.Counters.Outranked)
	assert.Equal(t, "zea_1", nr.Best["q1"].SubjectID, "non-contaminant wins inside the e-value gate")
	assert.Equal(t, "rice_2", nr.Best["q2"].SubjectID, "informative hit outscores hypothetical")
	assert.Equal(t, "Complete", nr.Best["q1"].Frame)
	assert.Equal(t, 3, nr.Summary.Unselected)
	assert.Equal(t, 1, nr.Summary.NoHits)

	assert.Equal(t, "sp|P1|ZEA", res.Compiled["q1"].SubjectID, "coverage beats e-value across databases")
	assert.True(t, res.Compiled["q1"].DatabaseHit)
	assert.Equal(t, hit.CrossDatabase, res.Compiled["q1"].Mode)
	assert.Equal(t, 3, res.Summary.TotalHits)
	assert.Equal(t, 2, res.Summary.Unique)
	assert.Equal(t, -1, res.Summary.Unselected)
	assert.Len(t, res.Summaries(), 3)

	for _, name := range []string{writers.UnselectedTSV, writers.BestHitsTSV, writers.SpeciesTable} {
		assert.FileExists(t, filepath.Join(processed, "blastp_t_nr", name))
	}
	assert.FileExists(t, filepath.Join(processed, CompiledDir, writers.BestHitsJSONL))
	assert.NoFileExists(t, filepath.Join(processed, CompiledDir, writers.UnselectedTSV))

	n, err := testutil.GatherAndCount(in.Metrics.Registry(), "simfilter_alignment_rows_total")
	require.NoError(t, err)
	assert.Equal(t, 6, n, "two databases, three outcomes each")
	assert.NotZero(t, logs.FilterMessage("compiled best hits").Len())
	for _, e := range logs.FilterMessage("filtering alignment file").All() {
		assert.Equal(t, sess.RunID.String(), e.ContextMap()["run_id"])
	}
}

func TestRun_MalformedRowFails(t *testing.T) {
	dir, in, dbs := fixture(t)
	require.NoError(t, os.WriteFile(dbs[1], []byte("q1\tonly\tthree\n"), 0o644))

	_, err := Run(context.Background(), NewSession(dbs), Config{
		Threads: 2, EValue: 1e-5, Params: hit.DefaultParams(), ProcessedDir: filepath.Join(dir, "p"),
	}, in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrMalformed))
	assert.Contains(t, err.Error(), "blastp_t_sp.out")
}

func TestRun_Cancelled(t *testing.T) {
	dir, in, dbs := fixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, NewSession(dbs), Config{Threads: 1, EValue: 1, Params: hit.DefaultParams(), ProcessedDir: dir}, in)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppendReport(t *testing.T) {
	dir, in, dbs := fixture(t)
	sess := NewSession(dbs)
	res, err := Run(context.Background(), sess, Config{Threads: 1, EValue: 1e-5, Params: hit.DefaultParams(), ProcessedDir: filepath.Join(dir, "p")}, in)
	require.NoError(t, err)

	path := filepath.Join(dir, "final_statistics.txt")
	require.NoError(t, AppendReport(path, sess, res.Summaries()))
	require.NoError(t, AppendReport(path, sess, res.Summaries()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Equal(t, 2, strings.Count(text, "Run "+sess.RunID.String()))
	assert.Equal(t, 2, strings.Count(text, "Compiled Results"))
	assert.Contains(t, text, "Statistics of file located at: "+dbs[0])
}

func TestResultDir(t *testing.T) {
	assert.Equal(t, filepath.Join("p", "blastp_t_nr"), resultDir("p", "/x/blastp_t_nr.out"))
	assert.Equal(t, filepath.Join("p", "blastp_t_nr"), resultDir("p", "/x/blastp_t_nr.out.gz"))
}

func TestResultDirs_Unique(t *testing.T) {
	got := resultDirs("p", []string{"a/nr.out", "b/nr.out", "nr.out.gz", "x/compiled.out", "sp.out"})
	assert.Equal(t, []string{
		filepath.Join("p", "nr"),
		filepath.Join("p", "nr_2"),
		filepath.Join("p", "nr_3"),
		filepath.Join("p", "compiled_2"),
		filepath.Join("p", "sp"),
	}, got)
}

func TestNewSession_DropsRepeatedPaths(t *testing.T) {
	sess := NewSession([]string{"a/nr.out", "sp.out", "a/./nr.out", "sp.out"})
	assert.Equal(t, []string{"a/nr.out", "sp.out"}, sess.Databases)
}

func TestRun_SameStemDatabasesKeepSeparateFiles(t *testing.T) {
	for _, threads := range []int{1, 2} {
		t.Run(strconv.Itoa(threads), func(t *testing.T) {
			dir, in, dbs := fixture(t)
			other := filepath.Join(dir, "other", filepath.Base(dbs[0]))
			require.NoError(t, os.MkdirAll(filepath.Dir(other), 0o755))
			require.NoError(t, os.Rename(dbs[1], other))

			processed := filepath.Join(dir, "p")
			res, err := Run(context.Background(), NewSession([]string{dbs[0], other}), Config{
				Threads: threads, EValue: 1e-5, Params: hit.DefaultParams(), ProcessedDir: processed,
			}, in)
			require.NoError(t, err)
			require.Len(t, res.Databases, 2)

			nr, sp := res.Databases[0].Summary, res.Databases[1].Summary
			assert.NotEqual(t, nr.Files.BestTSV, sp.Files.BestTSV)
			assert.Equal(t, filepath.Join(processed, "blastp_t_nr_2", writers.BestHitsTSV), sp.Files.BestTSV)

			data, err := os.ReadFile(nr.Files.BestTSV)
			require.NoError(t, err)
			assert.Contains(t, string(data), "zea_1")
			assert.Contains(t, string(data), "rice_2")
			assert.NotContains(t, string(data), other)

			unselected, err := os.ReadFile(nr.Files.Unselected)
			require.NoError(t, err)
			assert.Equal(t, 3+1, strings.Count(string(unselected), "\n"), "header plus three rows")
		})
	}
}
