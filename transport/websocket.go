// obsws - OBS-WebSocket v5 client protocol engine
// Copyright (C) 2025 obsws-project
//
// This file is part of obsws.
//
// obsws is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// obsws is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with obsws. If not, see <https://www.gnu.org/licenses/>.

// Package transport owns the WebSocket connection: dialing with
// subprotocol negotiation, serialized writes, blocking reads, and
// translation of OBS-range close codes. Everything above it deals in
// decoded payloads only.
package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/obsws-project/obsws/protocol"
)

// Options configures a dial.
type Options struct {
	// DialTimeout bounds the websocket handshake.
	DialTimeout time.Duration
	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration
	// Subprotocols to advertise, in preference order. Defaults to
	// obswebsocket.json.
	Subprotocols []string
}

func (o *Options) withDefaults() Options {
	opts := Options{
		DialTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Subprotocols: []string{"obswebsocket.json"},
	}
	if o == nil {
		return opts
	}
	if o.DialTimeout > 0 {
		opts.DialTimeout = o.DialTimeout
	}
	if o.WriteTimeout > 0 {
		opts.WriteTimeout = o.WriteTimeout
	}
	if len(o.Subprotocols) > 0 {
		opts.Subprotocols = o.Subprotocols
	}
	return opts
}

// Conn is a connected websocket transport. Reads are single-consumer;
// writes are serialized under an internal mutex so frames leave in
// submission order.
type Conn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	writeMu sync.Mutex

	closeOnce sync.Once
	closeErr  error
}

// Dial opens a websocket connection to url, advertising the configured
// subprotocols via the Sec-WebSocket-Protocol header.
func Dial(ctx context.Context, url string, opts *Options) (*Conn, error) {
	o := opts.withDefaults()

	dialer := &websocket.Dialer{
		HandshakeTimeout: o.DialTimeout,
		Subprotocols:     o.Subprotocols,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("transport: dial %s (HTTP %d): %w", url, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("transport: dial %s: %w", url, err)
	}

	return &Conn{
		conn:         conn,
		writeTimeout: o.WriteTimeout,
	}, nil
}

// Subprotocol returns the subprotocol the server selected, empty when
// the server ignored negotiation.
func (c *Conn) Subprotocol() string {
	return c.conn.Subprotocol()
}

// ReadMessage blocks for the next text frame. Close errors in the OBS
// 4000-4099 range come back as *protocol.CloseError.
func (c *Conn) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, protocol.TranslateClose(err)
	}
	return data, nil
}

// WriteMessage sends one text frame. Concurrent callers are serialized
// so the server sees frames in submission order.
func (c *Conn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return fmt.Errorf("transport: set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("transport: write: %w", err)
	}
	return nil
}

// Close sends a normal close frame and tears the connection down.
// Safe to call more than once and from any goroutine.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		_ = c.conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		)
		c.writeMu.Unlock()

		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
