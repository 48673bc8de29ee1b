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

package handshake

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/obsws-project/obsws/protocol"
)

const (
	testPassword  = "supersecretpassword"
	testSalt      = "lM1GncleixOOHFE3Lz3A4dmwR04Z3r3t"
	testChallenge = "+IxH4CnCiqpX1rM9scsNynZzbOe4KhDeYcTNS3PDaeY="
	testAuth      = "Dmb18GbBEPYqQb2EiLYsb8UMbiOSvT7jJp4NH7aOeqs="
)

func TestAuthResponse_KnownAnswer(t *testing.T) {
	require.Equal(t, testAuth, AuthResponse(testPassword, testSalt, testChallenge))
}

func TestEngine_NoAuthHandshake(t *testing.T) {
	sub := protocol.EventSubscription(33)
	e := New("", &sub)
	require.Equal(t, StateAwaitingHello, e.State())

	reply, done, err := e.Step(&protocol.Hello{OBSWebSocketVersion: "5.0.0", RPCVersion: 1})
	require.NoError(t, err)
	require.False(t, done)

	identify, ok := reply.(*protocol.Identify)
	require.True(t, ok)
	require.Equal(t, 1, identify.RPCVersion)
	require.Empty(t, identify.Authentication)
	require.Equal(t, sub, *identify.EventSubscriptions)
	require.Equal(t, StateAwaitingIdentified, e.State())

	reply, done, err = e.Step(&protocol.Identified{NegotiatedRPCVersion: 1})
	require.NoError(t, err)
	require.True(t, done)
	require.Nil(t, reply)
	require.Equal(t, StateIdentified, e.State())
	require.Equal(t, 1, e.NegotiatedRPCVersion())
}

func TestEngine_AuthHandshake(t *testing.T) {
	e := New(testPassword, nil)

	reply, _, err := e.Step(&protocol.Hello{
		RPCVersion: 1,
		Authentication: &protocol.Authentication{
			Challenge: testChallenge,
			Salt:      testSalt,
		},
	})
	require.NoError(t, err)

	identify := reply.(*protocol.Identify)
	require.Equal(t, testAuth, identify.Authentication)
	require.Nil(t, identify.EventSubscriptions)
}

func TestEngine_PasswordRequired(t *testing.T) {
	e := New("", nil)

	_, _, err := e.Step(&protocol.Hello{
		RPCVersion:     1,
		Authentication: &protocol.Authentication{Challenge: "c", Salt: "s"},
	})
	require.ErrorIs(t, err, ErrPasswordRequired)
}

func TestEngine_PasswordWithoutAuthBlockIsFine(t *testing.T) {
	e := New(testPassword, nil)

	reply, _, err := e.Step(&protocol.Hello{RPCVersion: 1})
	require.NoError(t, err)
	require.Empty(t, reply.(*protocol.Identify).Authentication)
}

func TestEngine_ProtocolViolation(t *testing.T) {
	t.Run("event before hello", func(t *testing.T) {
		e := New("", nil)
		_, _, err := e.Step(&protocol.Event{EventType: "ExitStarted"})

		var v *ViolationError
		require.True(t, errors.As(err, &v))
		require.Equal(t, StateAwaitingHello, v.State)
		require.Equal(t, protocol.OpEvent, v.Got)
	})

	t.Run("second hello", func(t *testing.T) {
		e := New("", nil)
		_, _, err := e.Step(&protocol.Hello{RPCVersion: 1})
		require.NoError(t, err)

		_, _, err = e.Step(&protocol.Hello{RPCVersion: 1})
		var v *ViolationError
		require.True(t, errors.As(err, &v))
		require.Equal(t, StateAwaitingIdentified, v.State)
	})
}
