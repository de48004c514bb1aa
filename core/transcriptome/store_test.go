package transcriptome

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ParsesFrameAndAlphabet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tx.faa")
	data := ">g1.t1 gene=g1 frame=Complete\nMKVLAAGIEQ\n>g2.t1 frame=Internal\nMSTPEELLK\n>g3.t1\nACGTACGTNN\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	s, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	q, ok := s.Get("g1.t1")
	require.True(t, ok)
	assert.Equal(t, "Complete", q.Frame)
	assert.True(t, q.Protein)
	assert.Equal(t, ">g1.t1 gene=g1 frame=Complete\nMKVLAAGIEQ", q.FASTA())

	assert.Equal(t, "Internal", s.Frame("g2.t1"))
	assert.Equal(t, "", s.Frame("g3.t1"))
	assert.Equal(t, "", s.Frame("missing"))

	g3, _ := s.Get("g3.t1")
	assert.False(t, g3.Protein)
	assert.False(t, s.Protein())

	ids := []string{}
	for _, q := range s.Queries() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []string{"g1.t1", "g2.t1", "g3.t1"}, ids)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "none.fa"))
	assert.Error(t, err)
}

func TestNewStore_DuplicateKeepsFirstPosition(t *testing.T) {
	s := NewStore([]Query{{ID: "a", Seq: "M"}, {ID: "b"}, {ID: "a", Seq: "MK"}})

	require.Equal(t, 2, s.Len())
	q, _ := s.Get("a")
	assert.Equal(t, "MK", q.Seq)
	assert.Equal(t, "a", s.Queries()[0].ID)
}

func TestIsProtein(t *testing.T) {
	assert.False(t, IsProtein([]byte("ACGTUNacgtun-")))
	assert.True(t, IsProtein([]byte("MEEPQSDPSV")))
	assert.False(t, IsProtein(nil))
}

func TestStoreProtein(t *testing.T) {
	assert.False(t, NewStore(nil).Protein())
	assert.True(t, NewStore([]Query{{ID: "a", Protein: true}}).Protein())
}
