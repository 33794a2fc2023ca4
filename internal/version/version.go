// Package version holds zigdoc's build identity.
package version

import (
	"runtime/debug"
	"sync"
)

// Overridden at build time:
// go build -ldflags "-X zigdoc/internal/version.Version=0.3.0 -X zigdoc/internal/version.Commit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of zigdoc
	Version = "0.3.0"

	// Commit is the git commit hash
	Commit = "unknown"

	// BuildDate is the build timestamp
	BuildDate = "unknown"
)

var fillOnce sync.Once

// fillFromBuildInfo takes the commit and date from the embedded VCS stamp
// when ldflags did not set them.
func fillFromBuildInfo() {
	fillOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if Commit == "unknown" && s.Value != "" {
					Commit = s.Value
				}
			case "vcs.time":
				if BuildDate == "unknown" && s.Value != "" {
					BuildDate = s.Value
				}
			}
		}
	})
}

// Info returns "<version>" or "<version> (<short commit>)".
func Info() string {
	fillFromBuildInfo()
	return format(Version, Commit)
}

func format(version, commit string) string {
	if commit != "unknown" && len(commit) > 7 {
		return version + " (" + commit[:7] + ")"
	}
	return version
}

// Full returns complete version information
func Full() string {
	fillFromBuildInfo()
	return "zigdoc version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
