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

package protocol

import (
	"errors"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestEventSubscription_Mask(t *testing.T) {
	require.Equal(t, EventSubscription(0x7FF), SubscriptionAll)
	require.True(t, SubscriptionAll.Has(SubscriptionScenes))
	require.False(t, SubscriptionAll.Has(SubscriptionInputVolumeMeters))

	mask := SubscriptionAll.With(SubscriptionInputVolumeMeters)
	require.True(t, mask.Has(SubscriptionInputVolumeMeters))
	require.False(t, mask.Without(SubscriptionScenes).Has(SubscriptionScenes))
}

func TestRequestStatus_OK(t *testing.T) {
	require.True(t, RequestStatus{Result: true, Code: StatusSuccess}.OK())
	require.False(t, RequestStatus{Result: false, Code: StatusResourceNotFound}.OK())
	require.False(t, RequestStatus{Result: true, Code: StatusGenericError}.OK())
}

func TestTranslateClose(t *testing.T) {
	t.Run("obs range is translated", func(t *testing.T) {
		err := TranslateClose(&websocket.CloseError{Code: 4009, Text: "auth failed"})

		var ce *CloseError
		require.ErrorAs(t, err, &ce)
		require.Equal(t, CloseAuthenticationFailed, ce.Code)
		require.Contains(t, ce.Error(), "AuthenticationFailed")
	})

	t.Run("transport codes pass through", func(t *testing.T) {
		orig := &websocket.CloseError{Code: websocket.CloseGoingAway}
		require.Equal(t, error(orig), TranslateClose(orig))
	})

	t.Run("plain errors pass through", func(t *testing.T) {
		orig := errors.New("read tcp: connection reset")
		require.Equal(t, orig, TranslateClose(orig))
	})
}

func TestOpCode_String(t *testing.T) {
	require.Equal(t, "Hello", OpHello.String())
	require.Equal(t, "RequestBatchResponse", OpRequestBatchResponse.String())
	require.Equal(t, "OpCode(4)", OpCode(4).String())
	require.False(t, OpCode(4).Valid())
}
