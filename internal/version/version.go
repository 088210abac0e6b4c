package version

// Version is the searchsync version. It is overridden at build time with
// -ldflags "-X github.com/hashicorp-forge/searchsync/internal/version.Version=...".
var Version = "0.1.0-dev"
