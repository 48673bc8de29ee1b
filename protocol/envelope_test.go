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
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	sub := SubscriptionAll

	payloads := []Payload{
		&Hello{
			OBSWebSocketVersion: "5.1.0",
			RPCVersion:          1,
			Authentication: &Authentication{
				Challenge: "+IxH4CnCiqpX1rM9scsNynZzbOe4KhDeYcTNS3PDaeY=",
				Salt:      "lM1GncleixOOHFE3Lz3A4dmwR04Z3r3t",
			},
		},
		&Hello{OBSWebSocketVersion: "5.0.0", RPCVersion: 1},
		&Identify{RPCVersion: 1, EventSubscriptions: &sub},
		&Identified{NegotiatedRPCVersion: 1},
		&Reidentify{},
		&Event{
			EventType:   "CurrentProgramSceneChanged",
			EventIntent: SubscriptionScenes,
			EventData:   json.RawMessage(`{"sceneName":"Scene 2"}`),
		},
		&Request{RequestType: "GetVersion", RequestID: "r1"},
		&RequestResponse{
			RequestType:   "GetVersion",
			RequestID:     "r1",
			RequestStatus: RequestStatus{Result: true, Code: StatusSuccess},
			ResponseData:  json.RawMessage(`{"obsVersion":"29.1.0"}`),
		},
		&RequestBatch{
			RequestID:     "b1",
			HaltOnFailure: true,
			ExecutionType: ExecutionSerialRealtime,
			Requests: []BatchRequestItem{
				{RequestType: "GetVersion", RequestID: "a"},
				{RequestType: "Sleep", RequestData: json.RawMessage(`{"sleepMillis":50}`)},
			},
		},
		&RequestBatchResponse{
			RequestID: "b1",
			Results: []BatchResponseItem{
				{RequestType: "GetVersion", RequestID: "a", RequestStatus: RequestStatus{Result: true, Code: StatusSuccess}},
			},
		},
	}

	for _, p := range payloads {
		t.Run(p.OpCode().String(), func(t *testing.T) {
			data, err := Encode(p)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, p, got)
		})
	}
}

func TestDecode_WireFieldNames(t *testing.T) {
	t.Run("hello without auth", func(t *testing.T) {
		p, err := Decode([]byte(`{"op":0,"d":{"obsWebSocketVersion":"5.0.0","rpcVersion":1}}`))
		require.NoError(t, err)

		hello, ok := p.(*Hello)
		require.True(t, ok)
		require.Equal(t, "5.0.0", hello.OBSWebSocketVersion)
		require.Equal(t, 1, hello.RPCVersion)
		require.Nil(t, hello.Authentication)
	})

	t.Run("identify uses eventSubscriptions", func(t *testing.T) {
		sub := EventSubscription(33)
		data, err := Encode(&Identify{RPCVersion: 1, EventSubscriptions: &sub})
		require.NoError(t, err)
		require.JSONEq(t, `{"op":1,"d":{"rpcVersion":1,"eventSubscriptions":33}}`, string(data))
	})

	t.Run("batch id rides as requestId", func(t *testing.T) {
		data, err := Encode(&RequestBatch{RequestID: "b1", ExecutionType: ExecutionSerialRealtime, Requests: []BatchRequestItem{}})
		require.NoError(t, err)
		require.JSONEq(t, `{"op":8,"d":{"requestId":"b1","executionType":0,"requests":[]}}`, string(data))
	})

	t.Run("event envelope", func(t *testing.T) {
		p, err := Decode([]byte(`{"op":5,"d":{"eventType":"CurrentProgramSceneChanged","eventIntent":4,"eventData":{"sceneName":"Scene 2"}}}`))
		require.NoError(t, err)

		ev, ok := p.(*Event)
		require.True(t, ok)
		require.Equal(t, "CurrentProgramSceneChanged", ev.EventType)
		require.Equal(t, SubscriptionScenes, ev.EventIntent)
		require.JSONEq(t, `{"sceneName":"Scene 2"}`, string(ev.EventData))
	})
}

func TestDecode_Malformed(t *testing.T) {
	cases := []struct {
		name  string
		data  string
		field string
	}{
		{"not json", `{`, "(root)"},
		{"missing op", `{"d":{}}`, "op"},
		{"missing d", `{"op":0}`, "d"},
		{"unknown opcode", `{"op":4,"d":{}}`, "op"},
		{"unknown high opcode", `{"op":42,"d":{}}`, "op"},
		{"shape mismatch", `{"op":0,"d":{"rpcVersion":"one"}}`, "d"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.data))
			require.Error(t, err)

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			require.Equal(t, tc.field, de.Field)
		})
	}
}
