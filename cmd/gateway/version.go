package main

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"build_date"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s, %s)", b.Version, b.GitCommit, b.BuildDate, b.GoVersion, b.Platform)
}
