package main

import "runtime/debug"

const modulePath = "github.com/tfdraft/tfdraft-go"

// version is stamped by release builds:
// -ldflags "-X main.version=v1.0.0". Unstamped binaries fall back to the
// module version recorded by "go install", or "dev" for local builds.
var version = ""

// getVersion returns the tfdraft version string.
func getVersion() string {
	if version != "" {
		return version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Path == modulePath {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}

	return "dev"
}
