package version

var (
	// Version is set at build time with ldflags
	Version = "v0.1.0-dev"
	// GitSHA is set at build time with ldflags
	GitSHA = ""
)

func String() string {
	if GitSHA == "" {
		return Version
	}
	return Version + "-" + GitSHA
}
