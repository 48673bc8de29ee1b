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

import "encoding/json"

// Payload is implemented by every message body that can ride in an
// envelope. The opcode determines which concrete type decodes the
// data field.
type Payload interface {
	OpCode() OpCode
}

// Authentication carries the server's challenge material from Hello.
type Authentication struct {
	Challenge string `json:"challenge"`
	Salt      string `json:"salt"`
}

// Hello is the first message the server sends after the connection opens.
type Hello struct {
	OBSWebSocketVersion string          `json:"obsWebSocketVersion"`
	RPCVersion          int             `json:"rpcVersion"`
	Authentication      *Authentication `json:"authentication,omitempty"`
}

func (Hello) OpCode() OpCode { return OpHello }

// Identify is the client's reply to Hello.
type Identify struct {
	RPCVersion         int                `json:"rpcVersion"`
	Authentication     string             `json:"authentication,omitempty"`
	EventSubscriptions *EventSubscription `json:"eventSubscriptions,omitempty"`
}

func (Identify) OpCode() OpCode { return OpIdentify }

// Identified confirms the handshake and carries the negotiated RPC version.
type Identified struct {
	NegotiatedRPCVersion int `json:"negotiatedRpcVersion"`
}

func (Identified) OpCode() OpCode { return OpIdentified }

// Reidentify changes the session's event subscriptions without
// reconnecting. A nil mask means "all non-high-volume".
type Reidentify struct {
	EventSubscriptions *EventSubscription `json:"eventSubscriptions,omitempty"`
}

func (Reidentify) OpCode() OpCode { return OpReidentify }

// Event is a server-initiated notification. EventData stays opaque
// until a subscriber's registry decodes it by EventType.
type Event struct {
	EventType   string            `json:"eventType"`
	EventIntent EventSubscription `json:"eventIntent"`
	EventData   json.RawMessage   `json:"eventData,omitempty"`
}

func (Event) OpCode() OpCode { return OpEvent }

// Request is a client-initiated call. RequestID must be unique among
// in-flight requests.
type Request struct {
	RequestType string          `json:"requestType"`
	RequestID   string          `json:"requestId"`
	RequestData json.RawMessage `json:"requestData,omitempty"`
}

func (Request) OpCode() OpCode { return OpRequest }

// RequestResponse answers exactly one outstanding Request.
type RequestResponse struct {
	RequestType   string          `json:"requestType"`
	RequestID     string          `json:"requestId"`
	RequestStatus RequestStatus   `json:"requestStatus"`
	ResponseData  json.RawMessage `json:"responseData,omitempty"`
}

func (RequestResponse) OpCode() OpCode { return OpRequestResponse }

// BatchRequestItem is one element of a RequestBatch. RequestID is
// optional; when absent the server omits it from the matching result.
type BatchRequestItem struct {
	RequestType string          `json:"requestType"`
	RequestID   string          `json:"requestId,omitempty"`
	RequestData json.RawMessage `json:"requestData,omitempty"`
}

// RequestBatch submits an ordered list of sub-requests under one
// execution policy. The batch id is renamed to requestId on the wire.
type RequestBatch struct {
	RequestID     string             `json:"requestId"`
	HaltOnFailure bool               `json:"haltOnFailure,omitempty"`
	ExecutionType BatchExecutionType `json:"executionType"`
	Requests      []BatchRequestItem `json:"requests"`
}

func (RequestBatch) OpCode() OpCode { return OpRequestBatch }

// BatchResponseItem is one per-element result. It is a RequestResponse
// without the outer envelope fields.
type BatchResponseItem struct {
	RequestType   string          `json:"requestType"`
	RequestID     string          `json:"requestId,omitempty"`
	RequestStatus RequestStatus   `json:"requestStatus"`
	ResponseData  json.RawMessage `json:"responseData,omitempty"`
}

// RequestBatchResponse carries the ordered per-element results for a
// batch. With haltOnFailure the list may be shorter than the request
// list; that is legal.
type RequestBatchResponse struct {
	RequestID string              `json:"requestId"`
	Results   []BatchResponseItem `json:"results"`
}

func (RequestBatchResponse) OpCode() OpCode { return OpRequestBatchResponse }

// BatchExecutionType is the server-side policy for executing a batch.
type BatchExecutionType int

const (
	ExecutionSerialRealtime BatchExecutionType = 0
	ExecutionSerialFrame    BatchExecutionType = 1
	ExecutionParallel       BatchExecutionType = 2
)

func (t BatchExecutionType) String() string {
	switch t {
	case ExecutionSerialRealtime:
		return "serialRealtime"
	case ExecutionSerialFrame:
		return "serialFrame"
	case ExecutionParallel:
		return "parallel"
	default:
		return "unknown"
	}
}
