package version

import (
	"runtime/debug"
	"sync"
)

// ModulePath is the import path of the fgakit module.
const ModulePath = "github.com/kbukum/fgakit"

// Version overrides the version found in the build info when set.
var Version = ""

// Info describes the fgakit build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit,omitempty"`
	IsDirty   bool   `json:"is_dirty,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

var (
	once   sync.Once
	cached Info
)

// Get returns the build information, resolved once per process.
func Get() Info {
	once.Do(func() {
		bi, _ := debug.ReadBuildInfo()
		cached = resolve(bi, Version)
	})
	return cached
}

// UserAgent is the User-Agent sent to the authorization service.
func UserAgent() string {
	return "fgakit/" + Get().Version
}

func resolve(bi *debug.BuildInfo, override string) Info {
	info := Info{Version: "dev"}
	if bi != nil {
		info.GoVersion = bi.GoVersion
		switch {
		case bi.Main.Path == ModulePath:
			info.Version = moduleVersion(bi.Main.Version)
			for _, s := range bi.Settings {
				switch s.Key {
				case "vcs.revision":
					info.GitCommit = s.Value
					if len(info.GitCommit) > 7 {
						info.GitCommit = info.GitCommit[:7]
					}
				case "vcs.modified":
					info.IsDirty = s.Value == "true"
				}
			}
		default:
			for _, dep := range bi.Deps {
				if dep.Path != ModulePath {
					continue
				}
				if dep.Replace != nil {
					dep = dep.Replace
				}
				info.Version = moduleVersion(dep.Version)
				break
			}
		}
	}
	if override != "" {
		info.Version = override
	}
	return info
}

func moduleVersion(v string) string {
	if v == "" || v == "(devel)" {
		return "dev"
	}
	return v
}
