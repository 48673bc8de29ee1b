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
	"fmt"

	"github.com/gorilla/websocket"
)

// CloseCode is a server-originated disconnect reason in the 4000-4099
// range, distinct from transport-level close codes.
type CloseCode int

const (
	CloseUnknownReason         CloseCode = 4000
	CloseMessageDecodeError    CloseCode = 4002
	CloseMissingDataField      CloseCode = 4003
	CloseInvalidDataFieldType  CloseCode = 4004
	CloseInvalidDataFieldValue CloseCode = 4005
	CloseUnknownOpCode         CloseCode = 4006
	CloseNotIdentified         CloseCode = 4007
	CloseAlreadyIdentified     CloseCode = 4008
	CloseAuthenticationFailed  CloseCode = 4009
	CloseUnsupportedRPCVersion CloseCode = 4010
	CloseSessionInvalidated    CloseCode = 4011
	CloseUnsupportedFeature    CloseCode = 4012
)

func (c CloseCode) String() string {
	switch c {
	case CloseUnknownReason:
		return "UnknownReason"
	case CloseMessageDecodeError:
		return "MessageDecodeError"
	case CloseMissingDataField:
		return "MissingDataField"
	case CloseInvalidDataFieldType:
		return "InvalidDataFieldType"
	case CloseInvalidDataFieldValue:
		return "InvalidDataFieldValue"
	case CloseUnknownOpCode:
		return "UnknownOpCode"
	case CloseNotIdentified:
		return "NotIdentified"
	case CloseAlreadyIdentified:
		return "AlreadyIdentified"
	case CloseAuthenticationFailed:
		return "AuthenticationFailed"
	case CloseUnsupportedRPCVersion:
		return "UnsupportedRpcVersion"
	case CloseSessionInvalidated:
		return "SessionInvalidated"
	case CloseUnsupportedFeature:
		return "UnsupportedFeature"
	default:
		return fmt.Sprintf("CloseCode(%d)", int(c))
	}
}

// CloseError is a translated protocol-level close.
type CloseError struct {
	Code CloseCode
	Text string
}

func (e *CloseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("protocol: connection closed: %s", e.Code)
	}
	return fmt.Sprintf("protocol: connection closed: %s: %s", e.Code, e.Text)
}

// TranslateClose maps a websocket close error in the OBS range onto a
// *CloseError. Transport-level codes and other errors pass through
// unchanged.
func TranslateClose(err error) error {
	var ce *websocket.CloseError
	if errors.As(err, &ce) && ce.Code >= 4000 && ce.Code <= 4099 {
		return &CloseError{Code: CloseCode(ce.Code), Text: ce.Text}
	}
	return err
}
