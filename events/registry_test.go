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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	t.Run("known type", func(t *testing.T) {
		ev, err := Decode(TypeCurrentProgramSceneChanged, json.RawMessage(`{"sceneName":"Scene 2"}`))
		require.NoError(t, err)

		changed, ok := ev.(*CurrentProgramSceneChanged)
		require.True(t, ok)
		require.Equal(t, "Scene 2", changed.SceneName)
		require.Equal(t, TypeCurrentProgramSceneChanged, changed.EventType())
	})

	t.Run("empty data gives the zero shape", func(t *testing.T) {
		ev, err := Decode(TypeExitStarted, nil)
		require.NoError(t, err)
		require.IsType(t, &ExitStarted{}, ev)
	})

	t.Run("unknown type is an explicit error", func(t *testing.T) {
		_, err := Decode("VendorEvent", json.RawMessage(`{}`))
		require.ErrorIs(t, err, ErrUnknownEventType)
		require.False(t, Known("VendorEvent"))
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := Decode(TypeStudioModeStateChanged, json.RawMessage(`{"studioModeEnabled":"yes"}`))
		require.Error(t, err)
	})
}
