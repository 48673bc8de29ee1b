// obsws - OBS-WebSocket v5 client protocol engine
// Copyright (C) 2025 obsws-project
//
// This file is part of obsws.
//
// obsws is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// obsws is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with obsws. If not, see <https://www.gnu.org/licenses/>.

// Package version provides version information for obsws.
package version

import (
	"fmt"
	"runtime"
)

// SupportedRPCVersion is the OBS-WebSocket RPC revision this library
// speaks. It is sent in Identify; the version the server confirms in
// Identified is recorded as is, without being compared against it.
const SupportedRPCVersion = 1

// Build information. Populated at build-time via ldflags.
var (
	// Version is the semantic version (set via ldflags).
	Version = "0.3.0"

	// GitCommit is the git commit hash (set via ldflags).
	GitCommit = ""

	// BuildDate is the build date (set via ldflags).
	BuildDate = ""

	// GoVersion is the Go version used to build.
	GoVersion = runtime.Version()
)

// Info contains version information.
type Info struct {
	Version    string `json:"version"`
	RPCVersion int    `json:"rpc_version"`
	GitCommit  string `json:"git_commit,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Get returns the version information.
func Get() Info {
	return Info{
		Version:    Version,
		RPCVersion: SupportedRPCVersion,
		GitCommit:  GitCommit,
		BuildDate:  BuildDate,
		GoVersion:  GoVersion,
		Platform:   fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns the version information as a formatted string.
func String() string {
	info := Get()
	if info.GitCommit != "" {
		return fmt.Sprintf("%s (rpc: %d, commit: %s, built: %s, go: %s, platform: %s)",
			info.Version, info.RPCVersion, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
	}
	return fmt.Sprintf("%s (rpc: %d, go: %s, platform: %s)",
		info.Version, info.RPCVersion, info.GoVersion, info.Platform)
}
