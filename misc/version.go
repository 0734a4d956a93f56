// Package misc keeps program identity, values are set at link time:
//
//	go build -ldflags "-X cssnum/misc.version=1.2.0 -X cssnum/misc.gitHash=$(git rev-parse --short HEAD)"
package misc

import (
	"path/filepath"
	"runtime/debug"
	"strings"
)

var (
	appName = "cssnum"
	version = "dev"
	gitHash = ""
)

// GetAppName returns program name to be used in logs and file names.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns short hash of the commit program was built from, falling
// back to VCS information embedded by the toolchain.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}

// SetAppName overrides program name from the executable name, so renamed
// binaries log under their own name.
func SetAppName(exe string) {
	if name := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe)); name != "" && name != "." {
		appName = name
	}
}
