package common

// Set at build time with -ldflags "-X .../internal/common.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
)
