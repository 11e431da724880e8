// Package version reports the build version of astmove.
package version

import (
	"runtime/debug"
)

// Version and Commit are overridden at link time with -ldflags "-X".
//
//nolint:gochecknoglobals // Set by the linker.
var (
	Version = "dev"
	Commit  = "<unknown>"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// Get returns the build information, falling back to the module build info
// when the linker variables were not set.
func Get() Info {
	info := Info{Version: Version, Commit: Commit}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	info.GoVersion = build.GoVersion

	if info.Version == "dev" && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}

	for _, setting := range build.Settings {
		if setting.Key == "vcs.revision" && info.Commit == "<unknown>" {
			info.Commit = setting.Value
		}
	}

	return info
}
