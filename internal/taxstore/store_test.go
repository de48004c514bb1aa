package taxstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simfilter/core/errs"
	"simfilter/core/taxonomy"
)

const dump = "Zea mays\t4577\tcellular organisms; Eukaryota; Viridiplantae; Zea\n" +
	"Escherichia coli\t562\tcellular organisms; Bacteria; Escherichia\n" +
	"zea mays\t4577\tcellular organisms; Eukaryota; Viridiplantae; Zea; dup\n"

func writeDump(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "taxonomy.tsv")
	require.NoError(t, os.WriteFile(p, []byte(dump), 0o644))
	return p
}

func TestBuildAndLoad(t *testing.T) {
	ctx := context.Background()
	index := filepath.Join(t.TempDir(), "idx", "taxonomy.db")

	r, err := Build(ctx, writeDump(t), index)
	require.NoError(t, err)
	assert.Equal(t, BuildResult{Read: 3, Total: 2}, r)

	l, err := NewLoader(index).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "cellular organisms; Eukaryota; Viridiplantae; Zea; dup", l.Lineage("Zea Mays"))

	e, ok := l.Get("escherichia coli")
	require.True(t, ok)
	assert.Equal(t, "562", e.TaxID)
}

func TestBuild_Refresh(t *testing.T) {
	ctx := context.Background()
	index := filepath.Join(t.TempDir(), "taxonomy.db")
	_, err := Build(ctx, writeDump(t), index)
	require.NoError(t, err)

	more := filepath.Join(t.TempDir(), "more.tsv")
	require.NoError(t, os.WriteFile(more, []byte("Homo Sapiens\t9606\tEukaryota; Homo\n"), 0o644))
	r, err := Build(ctx, more, index)
	require.NoError(t, err)
	assert.Equal(t, BuildResult{Read: 1, Total: 3}, r)

	l, err := NewLoader(index).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Eukaryota; Homo", l.Lineage("homo sapiens"))
}

func TestIndexLoader_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.db")
	_, err := IndexLoader{Path: path}.Load(context.Background())
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "loader must not create the index")
}

func TestImport_MalformedRollsBack(t *testing.T) {
	ctx := context.Background()
	p := filepath.Join(t.TempDir(), "bad.tsv")
	require.NoError(t, os.WriteFile(p, []byte("Zea mays\t4577\tZea\nbroken row\n"), 0o644))

	s, err := Open(filepath.Join(t.TempDir(), "t.db"))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Import(ctx, p)
	require.ErrorIs(t, err, errs.ErrMalformed)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNewLoader(t *testing.T) {
	assert.IsType(t, IndexLoader{}, NewLoader("x/taxonomy.sqlite"))
	assert.IsType(t, taxonomy.DumpLoader{}, NewLoader("x/taxonomy.tsv"))
}
