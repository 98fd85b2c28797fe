package version

// Version is the current version of the testingview library.
// This value is set at build time using ldflags:
// -ldflags "-X github.com/testingview/testingview/internal/version.Version=0.2.0"
var Version = "v0.1.0"

// GetVersion returns the current version of the library.
func GetVersion() string {
	return Version
}
