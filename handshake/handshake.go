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

// Package handshake drives the Hello -> Identify -> Identified exchange
// of an OBS-WebSocket v5 session, including the challenge-response
// authentication chain and RPC version negotiation.
package handshake

import (
	"errors"
	"fmt"

	"github.com/obsws-project/obsws/pkg/version"
	"github.com/obsws-project/obsws/protocol"
)

// ErrPasswordRequired is returned when the server's Hello demands
// authentication and no password was supplied.
var ErrPasswordRequired = errors.New("handshake: server requires authentication but no password was supplied")

// ViolationError reports an unexpected payload during the handshake.
type ViolationError struct {
	State State
	Got   protocol.OpCode
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("handshake: protocol violation: unexpected %s in state %s", e.Got, e.State)
}

// State is the handshake progress marker.
type State int

const (
	StateAwaitingHello State = iota
	StateAwaitingIdentified
	StateIdentified
)

func (s State) String() string {
	switch s {
	case StateAwaitingHello:
		return "AwaitingHello"
	case StateAwaitingIdentified:
		return "AwaitingIdentified"
	case StateIdentified:
		return "Identified"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Engine consumes decoded handshake payloads and produces the replies
// to transmit. It is not safe for concurrent use; the session feeds it
// from its single dispatch loop.
type Engine struct {
	password      string
	subscriptions *protocol.EventSubscription

	state      State
	negotiated int
}

// New creates a handshake engine. A nil subscription mask lets the
// server default to all non-high-volume categories. Supplying a
// password when the server does not require one is not an error.
func New(password string, subscriptions *protocol.EventSubscription) *Engine {
	return &Engine{
		password:      password,
		subscriptions: subscriptions,
		state:         StateAwaitingHello,
	}
}

// State returns the current handshake state.
func (e *Engine) State() State { return e.state }

// NegotiatedRPCVersion returns the server-confirmed RPC version. Valid
// only once State() is StateIdentified.
func (e *Engine) NegotiatedRPCVersion() int { return e.negotiated }

// Step consumes one decoded payload. It returns the reply to transmit
// (nil when none) and done=true once the session is identified. Any
// payload other than the one the state expects is a *ViolationError.
func (e *Engine) Step(p protocol.Payload) (reply protocol.Payload, done bool, err error) {
	switch e.state {
	case StateAwaitingHello:
		hello, ok := p.(*protocol.Hello)
		if !ok {
			return nil, false, &ViolationError{State: e.state, Got: p.OpCode()}
		}
		identify, err := e.identifyFor(hello)
		if err != nil {
			return nil, false, err
		}
		e.state = StateAwaitingIdentified
		return identify, false, nil

	case StateAwaitingIdentified:
		identified, ok := p.(*protocol.Identified)
		if !ok {
			return nil, false, &ViolationError{State: e.state, Got: p.OpCode()}
		}
		e.negotiated = identified.NegotiatedRPCVersion
		e.state = StateIdentified
		return nil, true, nil

	default:
		return nil, false, &ViolationError{State: e.state, Got: p.OpCode()}
	}
}

// identifyFor derives the Identify reply from the server's Hello. The
// authentication string is computed only when the Hello carries an
// authentication block and a password is available.
func (e *Engine) identifyFor(hello *protocol.Hello) (*protocol.Identify, error) {
	identify := &protocol.Identify{
		RPCVersion:         version.SupportedRPCVersion,
		EventSubscriptions: e.subscriptions,
	}
	if hello.Authentication == nil {
		return identify, nil
	}
	if e.password == "" {
		return nil, ErrPasswordRequired
	}
	identify.Authentication = AuthResponse(e.password, hello.Authentication.Salt, hello.Authentication.Challenge)
	return identify, nil
}
