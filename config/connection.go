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

package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// Subprotocol encodings advertised via Sec-WebSocket-Protocol.
const (
	EncodingJSON    = "obswebsocket.json"
	EncodingMsgPack = "obswebsocket.msgpack"
)

// ConnParams are the parsed connection parameters for one OBS
// instance. The URL form is scheme://host:port[/password]; when a path
// segment is present, it IS the password.
type ConnParams struct {
	Scheme   string
	Host     string
	Port     int
	Password string
	Encoding string
}

// ParseURL parses a connection URL. The password embedded in the path
// is optional; a password passed out-of-band takes precedence over it.
func ParseURL(raw string) (*ConnParams, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("unsupported scheme %q (want ws or wss)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}

	host := u.Hostname()
	port := 4455
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("invalid port %q", p)
		}
	}

	params := &ConnParams{
		Scheme:   u.Scheme,
		Host:     host,
		Port:     port,
		Encoding: EncodingJSON,
	}
	if path := strings.TrimPrefix(u.Path, "/"); path != "" {
		params.Password = path
	}
	return params, nil
}

// Addr returns the host:port dial address.
func (p *ConnParams) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// URL returns the websocket URL without the password path segment.
func (p *ConnParams) URL() string {
	return fmt.Sprintf("%s://%s", p.Scheme, p.Addr())
}
