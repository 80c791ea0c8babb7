package version

import (
	"fmt"
	"runtime"
)

// Set via -ldflags "-X github.com/neox5/esbox/internal/version.gitVersion=..." at build time.
var (
	gitVersion = "dev"
	gitCommit  = "unknown"
	buildDate  = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// Get returns the build information.
func Get() Info {
	return Info{
		Version:   gitVersion,
		Commit:    gitCommit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
	}
}

// String returns the short version string used by the CLI.
func String() string {
	return gitVersion
}

// UserAgent returns the User-Agent sent to Elasticsearch.
func UserAgent() string {
	return fmt.Sprintf("esbox/%s (%s)", gitVersion, runtime.Version())
}
