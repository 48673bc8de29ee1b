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

package session

import (
	"encoding/json"
	"sync"

	"github.com/obsws-project/obsws/events"
	"github.com/obsws-project/obsws/internal/logger"
	"github.com/obsws-project/obsws/protocol"
)

// sceneState is the observable OBS state the session tracks: studio
// mode plus the program and preview scene names. It is written by the
// bootstrap queries and by the permanent event listeners.
type sceneState struct {
	mu           sync.RWMutex
	studioMode   bool
	programScene string
	previewScene string
}

func (st *sceneState) setStudioMode(enabled bool) {
	st.mu.Lock()
	st.studioMode = enabled
	if !enabled {
		st.previewScene = ""
	}
	st.mu.Unlock()
}

func (st *sceneState) setProgramScene(name string) {
	st.mu.Lock()
	st.programScene = name
	st.mu.Unlock()
}

func (st *sceneState) setPreviewScene(name string) {
	st.mu.Lock()
	st.previewScene = name
	st.mu.Unlock()
}

// StudioModeEnabled reports the last observed studio mode flag.
func (s *Session) StudioModeEnabled() bool {
	s.sceneState.mu.RLock()
	defer s.sceneState.mu.RUnlock()
	return s.sceneState.studioMode
}

// CurrentProgramSceneName returns the last observed program scene.
func (s *Session) CurrentProgramSceneName() string {
	s.sceneState.mu.RLock()
	defer s.sceneState.mu.RUnlock()
	return s.sceneState.programScene
}

// CurrentPreviewSceneName returns the last observed preview scene,
// empty outside studio mode.
func (s *Session) CurrentPreviewSceneName() string {
	s.sceneState.mu.RLock()
	defer s.sceneState.mu.RUnlock()
	return s.sceneState.previewScene
}

// CurrentSceneName returns the preview scene when studio mode is
// active, the program scene otherwise.
func (s *Session) CurrentSceneName() string {
	s.sceneState.mu.RLock()
	defer s.sceneState.mu.RUnlock()
	if s.sceneState.previewScene != "" {
		return s.sceneState.previewScene
	}
	return s.sceneState.programScene
}

// handleEvent updates the tracked state for the three permanent
// listeners, then fans the event out to subscribers.
func (s *Session) handleEvent(ev *protocol.Event) {
	switch ev.EventType {
	case events.TypeStudioModeStateChanged:
		var data events.StudioModeStateChanged
		if err := json.Unmarshal(ev.EventData, &data); err == nil {
			s.sceneState.setStudioMode(data.StudioModeEnabled)
		} else {
			s.log.Warn("bad StudioModeStateChanged payload", logger.Error(err))
		}
	case events.TypeCurrentProgramSceneChanged:
		var data events.CurrentProgramSceneChanged
		if err := json.Unmarshal(ev.EventData, &data); err == nil {
			s.sceneState.setProgramScene(data.SceneName)
		} else {
			s.log.Warn("bad CurrentProgramSceneChanged payload", logger.Error(err))
		}
	case events.TypeCurrentPreviewSceneChanged:
		var data events.CurrentPreviewSceneChanged
		if err := json.Unmarshal(ev.EventData, &data); err == nil {
			s.sceneState.setPreviewScene(data.SceneName)
		} else {
			s.log.Warn("bad CurrentPreviewSceneChanged payload", logger.Error(err))
		}
	}

	s.bus.publish(ev)
}
