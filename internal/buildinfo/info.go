package buildinfo

var (
	// Version is injected via ldflags at release build time.
	Version = "dev"
	// Commit is injected via ldflags at release build time.
	Commit = "none"
	// Date is injected via ldflags at release build time.
	Date = "unknown"
)
