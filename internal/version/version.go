package version

// Overridden at build time via -ldflags "-X termidx/internal/version.Version=...".
var Version = "0.3.0-dev"

func String() string { return Version }
