// Package pipeline runs the filter over every alignment file of a session:
// one worker per database enriches, selects and writes that database's
// results, then the winners are compiled across databases and summarized.
package pipeline
