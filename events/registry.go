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

package events

import (
	"encoding/json"
	"fmt"
)

// ErrUnknownEventType is returned for discriminators outside the
// registry. Unknown events are reported, never dropped silently.
var ErrUnknownEventType = fmt.Errorf("events: unknown event type")

var registry = map[string]func() Event{
	TypeExitStarted:                func() Event { return &ExitStarted{} },
	TypeStudioModeStateChanged:     func() Event { return &StudioModeStateChanged{} },
	TypeSceneCreated:               func() Event { return &SceneCreated{} },
	TypeSceneRemoved:               func() Event { return &SceneRemoved{} },
	TypeCurrentProgramSceneChanged: func() Event { return &CurrentProgramSceneChanged{} },
	TypeCurrentPreviewSceneChanged: func() Event { return &CurrentPreviewSceneChanged{} },
	TypeRecordStateChanged:         func() Event { return &RecordStateChanged{} },
}

// Known reports whether the discriminator has a registered shape.
func Known(eventType string) bool {
	_, ok := registry[eventType]
	return ok
}

// Decode parses event data into the registered shape for the
// discriminator. Empty data decodes to the shape's zero value.
func Decode(eventType string, data json.RawMessage) (Event, error) {
	factory, ok := registry[eventType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEventType, eventType)
	}
	ev := factory()
	if len(data) == 0 {
		return ev, nil
	}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("events: decode %s: %w", eventType, err)
	}
	return ev, nil
}
