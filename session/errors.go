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
	"errors"
	"fmt"

	"github.com/obsws-project/obsws/protocol"
)

var (
	// ErrNotConnected rejects operations while the session is not
	// identified. Returned synchronously, before anything is sent.
	ErrNotConnected = errors.New("session: not connected")

	// ErrDisconnected completes pending operations when the session
	// ends before their response arrives.
	ErrDisconnected = errors.New("session: disconnected")

	// ErrAlreadyConnected rejects Connect on a live session.
	ErrAlreadyConnected = errors.New("session: already connected")

	// ErrSubscriberLagged terminates an event subscription that could
	// not keep up with delivery.
	ErrSubscriberLagged = errors.New("session: subscriber lagged")

	// ErrUnsupportedEncoding rejects the msgpack subprotocol: it can
	// be advertised, but only JSON envelopes are implemented.
	ErrUnsupportedEncoding = errors.New("session: only the obswebsocket.json encoding is supported")
)

// RequestError reports a request the server answered with a
// non-success status.
type RequestError struct {
	RequestType string
	Status      protocol.RequestStatus
}

func (e *RequestError) Error() string {
	if e.Status.Comment != "" {
		return fmt.Sprintf("session: request %s failed: code %d: %s", e.RequestType, e.Status.Code, e.Status.Comment)
	}
	return fmt.Sprintf("session: request %s failed: code %d", e.RequestType, e.Status.Code)
}

// ResponseDecodeError reports response data that did not match the
// expected response shape.
type ResponseDecodeError struct {
	RequestType string
	Err         error
}

func (e *ResponseDecodeError) Error() string {
	return fmt.Sprintf("session: decode %s response: %v", e.RequestType, e.Err)
}

func (e *ResponseDecodeError) Unwrap() error { return e.Err }
