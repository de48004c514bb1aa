// Package version carries the build version, set with
// -ldflags "-X simfilter/internal/version.Version=...".
package version

// Version of the simfilter binaries.
var Version = "dev"
