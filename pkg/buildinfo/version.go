// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/matzehuels/sceneimport/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/sceneimport/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/sceneimport/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"strconv"

	"github.com/matzehuels/sceneimport/pkg/reimport"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Info is the build information as reported by the inspector API.
type Info struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	ConfigVersion int    `json:"config_version"`
}

// Get returns the current build information.
func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, ConfigVersion: reimport.FormatVersion}
}

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\nimport config format: %d", Version, Commit, Date, reimport.FormatVersion)
}

// Template returns the version template string for cobra.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}

// UserAgent identifies this build to remote draft backends.
func UserAgent() string {
	return "sceneimport/" + Version + " (format " + strconv.Itoa(reimport.FormatVersion) + ")"
}
