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

package requests

import "fmt"

// ErrUnknownRequestType is returned for discriminators outside the
// registry.
var ErrUnknownRequestType = fmt.Errorf("requests: unknown request type")

// registry binds each discriminator to its response shape. The
// request and response types are related one-to-one through it.
var registry = map[string]func() any{
	TypeGetVersion:             func() any { return &GetVersionResponse{} },
	TypeGetStats:               func() any { return &GetStatsResponse{} },
	TypeSleep:                  func() any { return &SleepResponse{} },
	TypeGetStudioModeEnabled:   func() any { return &GetStudioModeEnabledResponse{} },
	TypeSetStudioModeEnabled:   func() any { return &SetStudioModeEnabledResponse{} },
	TypeGetSceneList:           func() any { return &GetSceneListResponse{} },
	TypeGetCurrentProgramScene: func() any { return &GetCurrentProgramSceneResponse{} },
	TypeSetCurrentProgramScene: func() any { return &SetCurrentProgramSceneResponse{} },
	TypeGetCurrentPreviewScene: func() any { return &GetCurrentPreviewSceneResponse{} },
	TypeSetCurrentPreviewScene: func() any { return &SetCurrentPreviewSceneResponse{} },
	TypeGetRecordStatus:        func() any { return &GetRecordStatusResponse{} },
	TypeStartRecord:            func() any { return &StartRecordResponse{} },
	TypeStopRecord:             func() any { return &StopRecordResponse{} },
}

// Known reports whether the discriminator has a registered response
// shape.
func Known(requestType string) bool {
	_, ok := registry[requestType]
	return ok
}

// NewResponse returns a pointer to the zero response shape for the
// discriminator.
func NewResponse(requestType string) (any, error) {
	factory, ok := registry[requestType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequestType, requestType)
	}
	return factory(), nil
}
