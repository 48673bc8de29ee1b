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

import "fmt"

// OpCode is the integer tag in the outer envelope that selects the
// payload shape. Values are fixed by the OBS-WebSocket v5 protocol;
// 4 is unassigned.
type OpCode int

const (
	OpHello                OpCode = 0
	OpIdentify             OpCode = 1
	OpIdentified           OpCode = 2
	OpReidentify           OpCode = 3
	OpEvent                OpCode = 5
	OpRequest              OpCode = 6
	OpRequestResponse      OpCode = 7
	OpRequestBatch         OpCode = 8
	OpRequestBatchResponse OpCode = 9
)

// String returns the protocol name of the opcode.
func (op OpCode) String() string {
	switch op {
	case OpHello:
		return "Hello"
	case OpIdentify:
		return "Identify"
	case OpIdentified:
		return "Identified"
	case OpReidentify:
		return "Reidentify"
	case OpEvent:
		return "Event"
	case OpRequest:
		return "Request"
	case OpRequestResponse:
		return "RequestResponse"
	case OpRequestBatch:
		return "RequestBatch"
	case OpRequestBatchResponse:
		return "RequestBatchResponse"
	default:
		return fmt.Sprintf("OpCode(%d)", int(op))
	}
}

// Valid reports whether op is one of the assigned protocol opcodes.
func (op OpCode) Valid() bool {
	switch op {
	case OpHello, OpIdentify, OpIdentified, OpReidentify,
		OpEvent, OpRequest, OpRequestResponse, OpRequestBatch, OpRequestBatchResponse:
		return true
	default:
		return false
	}
}
