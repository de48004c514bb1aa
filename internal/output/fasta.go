package output

import (
	"fmt"
	"io"

	"simfilter/core/transcriptome"
)

// WriteFASTA writes q as one FASTA record. Queries without a sequence
// (ids only known from the alignment file) are skipped.
func WriteFASTA(w io.Writer, q transcriptome.Query) error {
	if q.Seq == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, q.FASTA())
	return err
}
