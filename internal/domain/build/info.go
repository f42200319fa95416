// Package build describes the running binary.
package build

import (
	"fmt"
	"runtime"
)

// Info is stamped at link time; unset fields read as "dev" or "unknown".
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// Normalize fills unset fields.
func (i Info) Normalize() Info {
	if i.Version == "" {
		i.Version = "dev"
	}
	if i.Commit == "" {
		i.Commit = "unknown"
	}
	if i.BuildDate == "" {
		i.BuildDate = "unknown"
	}
	if i.GoVersion == "" {
		i.GoVersion = runtime.Version()
	}
	return i
}

// ShortCommit trims the commit hash to seven characters.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// String is the one-line form printed by `about --short`.
func (i Info) String() string {
	n := i.Normalize()
	return fmt.Sprintf("popframe %s (%s, %s)", n.Version, n.ShortCommit(), n.BuildDate)
}

// RepoURL returns the project home page.
func RepoURL() string {
	return "https://github.com/bnema/popframe"
}
