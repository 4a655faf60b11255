package buildinfo

// Set via -ldflags "-X" at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
