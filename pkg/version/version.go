// Package version reports the build version of the pokedeck binary.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/rshade/pokedeck/pkg/version.version=...".
//
//nolint:gochecknoglobals // Populated by the linker.
var (
	version   = ""
	gitCommit = ""
	buildDate = ""
)

// devVersion is reported when no version was stamped into the binary.
const devVersion = "dev"

// GetVersion returns the stamped version, the module version from build info, or "dev".
func GetVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return devVersion
}

// GetGitCommit returns the stamped commit hash, if any.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the stamped build date, if any.
func GetBuildDate() string {
	return buildDate
}
