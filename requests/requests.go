// Copyright (C) 2025 obsws-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package requests defines the typed request bodies the engine sends
// and the response shapes they decode into. Discriminators are
// explicit constants; the wire name never comes from a Go type name.
package requests

// Discriminator constants (wire-stable).
const (
	TypeGetVersion             = "GetVersion"
	TypeGetStats               = "GetStats"
	TypeSleep                  = "Sleep"
	TypeGetStudioModeEnabled   = "GetStudioModeEnabled"
	TypeSetStudioModeEnabled   = "SetStudioModeEnabled"
	TypeGetSceneList           = "GetSceneList"
	TypeGetCurrentProgramScene = "GetCurrentProgramScene"
	TypeSetCurrentProgramScene = "SetCurrentProgramScene"
	TypeGetCurrentPreviewScene = "GetCurrentPreviewScene"
	TypeSetCurrentPreviewScene = "SetCurrentPreviewScene"
	TypeGetRecordStatus        = "GetRecordStatus"
	TypeStartRecord            = "StartRecord"
	TypeStopRecord             = "StopRecord"
)

// Request is implemented by every typed request body.
type Request interface {
	RequestType() string
}

// GetVersion reports server version information.
type GetVersion struct{}

func (GetVersion) RequestType() string { return TypeGetVersion }

type GetVersionResponse struct {
	OBSVersion          string   `json:"obsVersion"`
	OBSWebSocketVersion string   `json:"obsWebSocketVersion"`
	RPCVersion          int      `json:"rpcVersion"`
	AvailableRequests   []string `json:"availableRequests,omitempty"`
	SupportedImageFormats []string `json:"supportedImageFormats,omitempty"`
	Platform            string   `json:"platform,omitempty"`
	PlatformDescription string   `json:"platformDescription,omitempty"`
}

// GetStats reports server resource usage.
type GetStats struct{}

func (GetStats) RequestType() string { return TypeGetStats }

type GetStatsResponse struct {
	CPUUsage            float64 `json:"cpuUsage"`
	MemoryUsage         float64 `json:"memoryUsage"`
	AvailableDiskSpace  float64 `json:"availableDiskSpace"`
	ActiveFPS           float64 `json:"activeFps"`
	AverageFrameRenderTime float64 `json:"averageFrameRenderTime"`
	RenderSkippedFrames int     `json:"renderSkippedFrames"`
	RenderTotalFrames   int     `json:"renderTotalFrames"`
	WebSocketSessionIncomingMessages int `json:"webSocketSessionIncomingMessages"`
	WebSocketSessionOutgoingMessages int `json:"webSocketSessionOutgoingMessages"`
}

// Sleep pauses batch execution; only meaningful inside a request batch.
type Sleep struct {
	SleepMillis *int64 `json:"sleepMillis,omitempty"`
	SleepFrames *int64 `json:"sleepFrames,omitempty"`
}

func (Sleep) RequestType() string { return TypeSleep }

type SleepResponse struct{}

// GetStudioModeEnabled reads the studio mode flag.
type GetStudioModeEnabled struct{}

func (GetStudioModeEnabled) RequestType() string { return TypeGetStudioModeEnabled }

type GetStudioModeEnabledResponse struct {
	StudioModeEnabled bool `json:"studioModeEnabled"`
}

// SetStudioModeEnabled toggles studio mode.
type SetStudioModeEnabled struct {
	StudioModeEnabled bool `json:"studioModeEnabled"`
}

func (SetStudioModeEnabled) RequestType() string { return TypeSetStudioModeEnabled }

type SetStudioModeEnabledResponse struct{}

// GetSceneList lists scenes and the current program/preview names.
type GetSceneList struct{}

func (GetSceneList) RequestType() string { return TypeGetSceneList }

type SceneListItem struct {
	SceneName  string `json:"sceneName"`
	SceneIndex int    `json:"sceneIndex"`
}

type GetSceneListResponse struct {
	CurrentProgramSceneName string          `json:"currentProgramSceneName"`
	CurrentPreviewSceneName string          `json:"currentPreviewSceneName,omitempty"`
	Scenes                  []SceneListItem `json:"scenes"`
}

// GetCurrentProgramScene reads the program scene name.
type GetCurrentProgramScene struct{}

func (GetCurrentProgramScene) RequestType() string { return TypeGetCurrentProgramScene }

type GetCurrentProgramSceneResponse struct {
	CurrentProgramSceneName string `json:"currentProgramSceneName"`
}

// SetCurrentProgramScene switches the program scene.
type SetCurrentProgramScene struct {
	SceneName string `json:"sceneName"`
}

func (SetCurrentProgramScene) RequestType() string { return TypeSetCurrentProgramScene }

type SetCurrentProgramSceneResponse struct{}

// GetCurrentPreviewScene reads the preview scene name. Fails with
// StudioModeNotActive when studio mode is off.
type GetCurrentPreviewScene struct{}

func (GetCurrentPreviewScene) RequestType() string { return TypeGetCurrentPreviewScene }

type GetCurrentPreviewSceneResponse struct {
	CurrentPreviewSceneName string `json:"currentPreviewSceneName"`
}

// SetCurrentPreviewScene switches the preview scene.
type SetCurrentPreviewScene struct {
	SceneName string `json:"sceneName"`
}

func (SetCurrentPreviewScene) RequestType() string { return TypeSetCurrentPreviewScene }

type SetCurrentPreviewSceneResponse struct{}

// GetRecordStatus reads the record output state.
type GetRecordStatus struct{}

func (GetRecordStatus) RequestType() string { return TypeGetRecordStatus }

type GetRecordStatusResponse struct {
	OutputActive   bool    `json:"outputActive"`
	OutputPaused   bool    `json:"outputPaused"`
	OutputTimecode string  `json:"outputTimecode"`
	OutputDuration int64   `json:"outputDuration"`
	OutputBytes    int64   `json:"outputBytes"`
}

// StartRecord starts the record output.
type StartRecord struct{}

func (StartRecord) RequestType() string { return TypeStartRecord }

type StartRecordResponse struct{}

// StopRecord stops the record output and reports the file path.
type StopRecord struct{}

func (StopRecord) RequestType() string { return TypeStopRecord }

type StopRecordResponse struct {
	OutputPath string `json:"outputPath"`
}
