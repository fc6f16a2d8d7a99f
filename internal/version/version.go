package version

import (
	"fmt"
	"runtime"
)

const appName = "Aegis"

// Populated through -ldflags at build time. A plain `go build` reports
// the dev placeholder.
var (
	Version   = "dev"
	GitCommit string
	BuildTime string
)

// String returns the one-line version banner.
func String() string {
	if GitCommit == "" {
		return fmt.Sprintf("%s %s", appName, Version)
	}
	return fmt.Sprintf("%s %s (%s)", appName, Version, shortCommit(GitCommit))
}

// PrintVersion writes the full version report to stdout.
func PrintVersion() {
	fmt.Println(String())
	if BuildTime != "" {
		fmt.Printf("Build time: %s\n", BuildTime)
	}
	fmt.Printf("Go version: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
