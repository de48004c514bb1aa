package aligner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"simfilter/core/blast"
)

func init() {
	Register("diamond", func(exe string) Backend { return &Diamond{Exe: exe} })
}

// Diamond runs DIAMOND blastp/blastx with the tabular columns blast.ParseRow reads.
type Diamond struct {
	Exe string
}

// Name implements Backend.
func (d *Diamond) Name() string { return "diamond" }

// Mode returns the DIAMOND subcommand for req.
func (d *Diamond) Mode(req Request) string {
	if req.Protein {
		return "blastp"
	}
	return "blastx"
}

// Args builds the argument list for req.
func (d *Diamond) Args(req Request) []string {
	args := []string{
		d.Mode(req),
		"-d", req.Database,
		"--query-cover", strconv.FormatFloat(req.Coverage, 'f', -1, 64),
		"--more-sensitive",
		"-k", "5",
		"-q", req.Query,
		"-o", req.Out,
		"-p", strconv.Itoa(max(req.Threads, 1)),
		"-f", "6",
	}
	args = append(args, blast.OutputFormat...)
	return append(args, req.ExtraArgs...)
}

// Search implements Backend. Tool output goes to req.Log when set.
func (d *Diamond) Search(ctx context.Context, req Request) error {
	cmd := exec.CommandContext(ctx, d.Exe, d.Args(req)...)
	if req.Log != "" {
		f, err := os.Create(req.Log)
		if err != nil {
			return fmt.Errorf("diamond log: %w", err)
		}
		defer f.Close()
		fmt.Fprintf(f, "%s %s\n", d.Exe, strings.Join(cmd.Args[1:], " "))
		cmd.Stdout = f
		cmd.Stderr = f
	}
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("diamond run with database %s: %w", req.Database, err)
	}
	return nil
}
