// Package contracts holds the types shared by the kartlap server, CLI and
// clients.
package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the release version of kartlap.
	Version = "0.3.0"

	// RecordFormatVersion is the version of the persisted heat record
	// layout. Bump it when HeatRecord changes incompatibly.
	RecordFormatVersion = "1"

	// APIVersion prefixes the REST contracts and websocket events.
	APIVersion = "v1"
)

// Set at build time with
//
//	-ldflags "-X kartlap/pkg/contracts.GitCommit=$(git rev-parse --short HEAD)"
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo describes the running binary.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"arch"`
	RecordFormat string `json:"record_format"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo returns the build information of the running binary.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		RecordFormat: RecordFormatVersion,
		APIVersion:   APIVersion,
	}
}

// String renders the info for --version output.
func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s %s/%s)",
		v.Version, v.GitCommit, v.BuildTime, v.GoVersion, v.OS, v.Architecture)
}
