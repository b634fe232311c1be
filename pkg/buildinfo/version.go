// Package buildinfo reports which build of wikimap is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/wikimap/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/wikimap/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/wikimap/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with go install carry no ldflags; for those the module
// version and VCS settings embedded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Homepage is advertised in the User-Agent sent to Wikipedia.
const Homepage = "https://github.com/matzehuels/wikimap"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is one resolved set of build values.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Current returns the stamped values, filling unstamped ones from the
// toolchain's embedded build info when available.
func Current() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	return info.fill(bi)
}

func (i Info) fill(bi *debug.BuildInfo) Info {
	if i.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		i.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && i.Commit == "none":
			i.Commit = s.Value
		case s.Key == "vcs.time" && i.Date == "unknown":
			i.Date = s.Value
		}
	}
	return i
}

// Template returns the version template string for cobra.
func Template() string {
	i := Current()
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}

// UserAgent identifies this build to upstream servers. Wikimedia rejects
// requests without a descriptive agent.
func UserAgent() string {
	return fmt.Sprintf("wikimap/%s (+%s)", Current().Version, Homepage)
}
