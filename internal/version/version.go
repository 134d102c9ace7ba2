package version

// Version contains the application version information.
// This should be set via build-time ldflags in production:
// go build -ldflags "-X git.home.luguber.info/inful/yfile/internal/version.Version=v1.0.0".
var Version = "dev"

// GitCommit is the source revision the binary was built from.
var GitCommit = "unknown"

// String renders the version line printed by --version.
func String() string {
	if GitCommit == "" || GitCommit == "unknown" {
		return "yfile " + Version
	}
	return "yfile " + Version + " (" + GitCommit + ")"
}
