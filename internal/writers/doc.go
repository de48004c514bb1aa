// Package writers turns hits and summaries into files and streams.
//
// Design:
//   • Writers own all presentation knowledge (TSV/JSONL/FASTA/report text).
//   • core stays domain-only; pipeline stays orchestration-only.
//   • JSON/JSONL go through pkg/api (v1) for a stable wire format.
package writers
