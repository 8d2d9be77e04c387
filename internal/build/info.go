// Package build holds version information stamped at build time.
package build

// These are set via -ldflags at release time, e.g.
//
//	go build -ldflags "-X github.com/annalhq/arcane/internal/build.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)
