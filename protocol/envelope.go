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
	"fmt"
)

// Envelope is the outer wire object. Every frame is exactly
// {"op": <int>, "d": <object>}.
type Envelope struct {
	Op OpCode          `json:"op"`
	D  json.RawMessage `json:"d"`
}

// DecodeError reports a malformed frame. Field names the offending
// path inside the frame.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("protocol: malformed message at %q", e.Field)
	}
	return fmt.Sprintf("protocol: malformed message at %q: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode serializes a payload into its envelope.
func Encode(p Payload) ([]byte, error) {
	d, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s payload: %w", p.OpCode(), err)
	}
	return json.Marshal(Envelope{Op: p.OpCode(), D: d})
}

// rawEnvelope separates presence checks from type checks: both fields
// must exist before the opcode is inspected.
type rawEnvelope struct {
	Op *OpCode          `json:"op"`
	D  *json.RawMessage `json:"d"`
}

// Decode parses a frame in two steps: the outer envelope first to read
// the opcode, then the data field into the concrete payload variant.
// Unknown opcodes and shape mismatches return a *DecodeError.
func Decode(data []byte) (Payload, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Field: "(root)", Err: err}
	}
	if raw.Op == nil {
		return nil, &DecodeError{Field: "op", Err: fmt.Errorf("missing field")}
	}
	if raw.D == nil {
		return nil, &DecodeError{Field: "d", Err: fmt.Errorf("missing field")}
	}
	if !raw.Op.Valid() {
		return nil, &DecodeError{Field: "op", Err: fmt.Errorf("unknown opcode %d", int(*raw.Op))}
	}

	var p Payload
	switch *raw.Op {
	case OpHello:
		p = &Hello{}
	case OpIdentify:
		p = &Identify{}
	case OpIdentified:
		p = &Identified{}
	case OpReidentify:
		p = &Reidentify{}
	case OpEvent:
		p = &Event{}
	case OpRequest:
		p = &Request{}
	case OpRequestResponse:
		p = &RequestResponse{}
	case OpRequestBatch:
		p = &RequestBatch{}
	case OpRequestBatchResponse:
		p = &RequestBatchResponse{}
	}
	if err := json.Unmarshal(*raw.D, p); err != nil {
		return nil, &DecodeError{Field: "d", Err: err}
	}
	return p, nil
}
