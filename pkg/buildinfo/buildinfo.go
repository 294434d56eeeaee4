// Package buildinfo contains build information.
//
// The version can be overridden during compilation by passing
// -ldflags "-X src.lnedit.sh/pkg/buildinfo.VCSOverride=value" to "go build".
package buildinfo

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"time"

	"src.lnedit.sh/pkg/prog"
)

// VersionBase is the version of lnedit without any suffix. On development
// commits, it identifies the next release.
const VersionBase = "0.1.0"

// VCSOverride may be set during compilation to "time-commit" (e.g.
// "20220401235958-123456789012") to override the VCS information in the
// version.
var VCSOverride string

// Type of Value.
type Type struct {
	Version   string
	GoVersion string
}

// Value contains all the build information.
var Value = Type{
	Version:   devVersion(VersionBase, VCSOverride, debug.ReadBuildInfo),
	GoVersion: runtime.Version(),
}

func devVersion(next, vcsOverride string, readBuildInfo func() (*debug.BuildInfo, bool)) string {
	if vcsOverride != "" {
		return next + "-dev.0." + vcsOverride
	}
	fallback := next + "-dev.unknown"
	bi, ok := readBuildInfo()
	if !ok {
		return fallback
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		// Installed with "go install src.lnedit.sh/cmd/lnedit@version".
		return v[1:]
	}
	var revision, timeStr, modified string
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			timeStr = setting.Value
		case "vcs.modified":
			modified = setting.Value
		}
	}
	if len(revision) < 12 {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil {
		return fallback
	}
	v := next + "-dev.0." + t.UTC().Format("20060102150405") + "-" + revision[:12]
	if modified == "true" {
		v += "-dirty"
	}
	return v
}

// Program is the program that handles -version. It is not suitable when
// -version is absent.
var Program prog.Program = program{}

type program struct{}

func (program) Run(fds [3]*os.File, f *prog.Flags, _ []string) error {
	if !f.Version {
		return prog.ErrNotSuitable
	}
	fmt.Fprintln(fds[1], "lnedit", Value.Version)
	fmt.Fprintln(fds[1], "Go version:", Value.GoVersion)
	return nil
}
