package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set through -ldflags "-X github.com/oshokin/fivem-installer/internal/version.Version=...".
var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// Info describes the running installer binary.
type Info struct {
	Version   string
	Commit    string
	BuildTime string
	GoVersion string
	Platform  string
}

// Current returns build metadata, falling back to what the Go toolchain
// recorded when the binary was built without ldflags (e.g. go install).
func Current() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	if build, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, build)
	}

	return info
}

func fillFromBuildInfo(info *Info, build *debug.BuildInfo) {
	if info.Version == "dev" && build.Main.Version != "" && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}

	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "none" && setting.Value != "" {
				info.Commit = shortRevision(setting.Value)
			}
		case "vcs.time":
			if info.BuildTime == "unknown" && setting.Value != "" {
				info.BuildTime = setting.Value
			}
		}
	}
}

func shortRevision(rev string) string {
	const width = 12

	if len(rev) > width {
		return rev[:width]
	}

	return rev
}

// String renders the banner printed by the version command.
func (i Info) String() string {
	return fmt.Sprintf("fivem-installer %s (commit %s, built %s, %s %s)",
		i.Version, i.Commit, i.BuildTime, i.GoVersion, i.Platform)
}

// Short returns only the version.
func Short() string {
	return Current().Version
}

// Full returns the version banner.
func Full() string {
	return Current().String()
}

// UserAgent identifies the installer to the artifact server and GitHub.
func UserAgent() string {
	return fmt.Sprintf("fivem-installer/%s (%s; %s)", Short(), runtime.GOOS, runtime.GOARCH)
}
