package buildinfo

// Version is injected on release builds via -ldflags, e.g.:
// -X github.com/halvden/oblevel/internal/pkg/buildinfo.Version=v0.3.0
var Version = "v0.3.0-dev"

// Commit optionally carries the git commit on release builds, e.g.:
// -X github.com/halvden/oblevel/internal/pkg/buildinfo.Commit=abcdef1
var Commit = "unknown"
