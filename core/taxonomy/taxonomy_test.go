package taxonomy

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simfilter/core/errs"
)

func TestParseRecord(t *testing.T) {
	e := ParseRecord("4577||cellular organisms; Eukaryota; Zea")
	assert.Equal(t, Entry{TaxID: "4577", Lineage: "cellular organisms; Eukaryota; Zea"}, e)
	assert.Equal(t, "4577||cellular organisms; Eukaryota; Zea", e.Record())

	assert.Equal(t, Entry{TaxID: "4577"}, ParseRecord("4577"))
	assert.Equal(t, Entry{}, ParseRecord(""))
}

func TestLookup_CaseInsensitive(t *testing.T) {
	l := New(map[string]Entry{"Zea mays": {TaxID: "4577", Lineage: "Zea"}})

	e, ok := l.Get("ZEA MAYS")
	require.True(t, ok)
	assert.Equal(t, "4577", e.TaxID)
	assert.Equal(t, "Zea", l.Lineage("zea mays"))
	assert.Equal(t, "", l.Lineage("oryza sativa"))
	assert.Equal(t, "", l.Lineage(""))
	assert.Equal(t, 1, l.Len())

	var nilLookup *Lookup
	assert.Equal(t, "", nilLookup.Lineage("zea mays"))
	assert.Equal(t, 0, nilLookup.Len())
}

func TestNormalizeSpecies(t *testing.T) {
	assert.Equal(t, "homo sapiens", NormalizeSpecies("Homo_sapiens"))
	assert.Equal(t, "zea mays", NormalizeSpecies(" Zea mays "))
	assert.Equal(t, "populus trichocarpa_x", NormalizeSpecies("Populus_trichocarpa_x"))
	assert.Equal(t, "", NormalizeSpecies(""))
}

func TestReadDump(t *testing.T) {
	dump := "# name\ttaxid\tlineage\nZea mays\t4577\tcellular organisms; Zea\n\nEscherichia coli\t562\tBacteria; Escherichia\n"
	var rows []DumpRow
	err := ReadDump(context.Background(), strings.NewReader(dump), "dump", func(r DumpRow) error {
		rows = append(rows, r)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Escherichia coli", rows[1].Name)
	assert.Equal(t, "Bacteria; Escherichia", rows[1].Entry.Lineage)
}

func TestReadDump_Malformed(t *testing.T) {
	err := ReadDump(context.Background(), strings.NewReader("Zea mays\t4577\n"), "dump", func(DumpRow) error { return nil })
	assert.True(t, errors.Is(err, errs.ErrMalformed))
	assert.Contains(t, err.Error(), "dump:1")
}

func TestDumpLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax.tsv")
	require.NoError(t, os.WriteFile(path, []byte("Zea mays\t4577\tcellular organisms; Zea\n"), 0o644))

	l, err := DumpLoader{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cellular organisms; Zea", l.Lineage("zea mays"))

	_, err = DumpLoader{Path: filepath.Join(t.TempDir(), "missing")}.Load(context.Background())
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestNew_CaseCollisionIsDeterministic(t *testing.T) {
	entries := map[string]Entry{
		"zea mays": {TaxID: "1"},
		"Zea mays": {TaxID: "2"},
		"ZEA MAYS": {TaxID: "3"},
	}
	for i := 0; i < 20; i++ {
		e, ok := New(entries).Get("zea mays")
		require.True(t, ok)
		assert.Equal(t, "3", e.TaxID)
	}
}

func TestDumpLoader_RepeatedNameKeepsLastRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tax.tsv")
	data := "Zea mays\t4577\tfirst\nzea mays\t4577\tsecond\nZEA MAYS\t4577\tthird\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	for i := 0; i < 20; i++ {
		l, err := DumpLoader{Path: path}.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "third", l.Lineage("Zea mays"))
	}
}
