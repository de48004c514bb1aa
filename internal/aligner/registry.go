// Package aligner runs the external similarity search that produces the
// tabular alignment files, and finds existing ones.
package aligner

import (
	"context"
	"fmt"
	"sort"

	"simfilter/core/errs"
)

// Request describes one search of the transcriptome against one database.
type Request struct {
	Query     string // transcriptome FASTA
	Database  string
	Out       string // tabular output path
	Log       string // captured stdout/stderr of the tool
	Threads   int
	Coverage  float64
	Protein   bool // blastp for protein queries, blastx for nucleotide
	ExtraArgs []string
}

// Backend is a similarity search tool.
type Backend interface {
	Name() string
	Search(ctx context.Context, req Request) error
}

// Factory builds a backend for an executable path.
type Factory func(exe string) Backend

// Backend registry (name → factory). Register in init() blocks.
var backends = map[string]Factory{}

// Register adds a backend (idempotent last-wins).
func Register(name string, f Factory) { backends[name] = f }

// New returns the backend registered under name.
func New(name, exe string) (Backend, error) {
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("aligner %q: %w (registered: %v)", name, errs.ErrUnknownBackend, Names())
	}
	return f(exe), nil
}

// Names lists registered backends in order.
func Names() []string {
	out := make([]string, 0, len(backends))
	for n := range backends {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
