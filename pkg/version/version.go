// Package version reports the version of the jetlint binary.
package version

// Version is the version of the jetlint binary.
//
// It can be overwritten using
// `go build -ldflags "-X jetlint.dev/pkg/version.Version=v0.3.0"`.
var Version = "devel"
