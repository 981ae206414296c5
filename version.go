package custody

// Release is the semantic version of this build. Release builds override it
// with
//
//	-ldflags "-X github.com/crypto-guardian/custody.Release=v1.2.3"
var Release = "v0.1.0-dev"

// GitCommit is set by build flags to the source revision.
var GitCommit = ""

// Version returns the release, followed by the commit when known.
func Version() string {
	if GitCommit == "" {
		return Release
	}
	return Release + " " + GitCommit
}
