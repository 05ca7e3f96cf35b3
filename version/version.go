package version

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	IsRelease bool   `json:"is_release"`
	IsDirty   bool   `json:"is_dirty"`
}

// Get returns the build information, filling gaps from the VCS stamp the
// Go toolchain embeds.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.modified":
				info.IsDirty = s.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	info.IsRelease = info.Version != "dev" && !info.IsDirty
	return info
}

// String returns "version (commit, dirty)" omitting empty parts.
func (i Info) String() string {
	var meta []string
	if i.GitCommit != "" {
		meta = append(meta, i.GitCommit)
	}
	if i.IsDirty {
		meta = append(meta, "dirty")
	}
	if len(meta) == 0 {
		return i.Version
	}
	return i.Version + " (" + strings.Join(meta, ", ") + ")"
}
