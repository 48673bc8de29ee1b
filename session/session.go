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

// Package session composes the protocol engine: it drives the
// handshake over a websocket transport, correlates requests with
// responses, executes batches, fans events out to subscribers, and
// tracks the observable OBS state for one connection at a time.
package session

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/obsws-project/obsws/config"
	"github.com/obsws-project/obsws/handshake"
	"github.com/obsws-project/obsws/internal/logger"
	"github.com/obsws-project/obsws/internal/metrics"
	"github.com/obsws-project/obsws/protocol"
	"github.com/obsws-project/obsws/requests"
	"github.com/obsws-project/obsws/transport"
)

// State is the session lifecycle marker.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateAwaitingHello
	StateAwaitingIdentified
	StateIdentified
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "Disconnected"
	case StateConnecting:
		return "Connecting"
	case StateAwaitingHello:
		return "AwaitingHello"
	case StateAwaitingIdentified:
		return "AwaitingIdentified"
	case StateIdentified:
		return "Identified"
	default:
		return "Unknown"
	}
}

// Options configure a session.
type Options struct {
	// Password overrides any password embedded in the URL path.
	Password string
	// Subscriptions is the event-subscription mask sent in Identify.
	// Nil lets the server default to all non-high-volume categories.
	Subscriptions *protocol.EventSubscription
	// Encoding selects the advertised subprotocol. Only
	// config.EncodingJSON is implemented.
	Encoding string
	// DialTimeout bounds the websocket handshake.
	DialTimeout time.Duration
	// WriteTimeout bounds each frame write.
	WriteTimeout time.Duration
	// RequestTimeout bounds each request or batch round trip when the
	// caller's context carries no deadline of its own. Zero disables
	// the default deadline.
	RequestTimeout time.Duration
	// SkipStateBootstrap disables the studio-mode and scene-name
	// queries issued after Identified. The scene-state accessors stay
	// at their zero values until the matching events arrive.
	SkipStateBootstrap bool
	// Logger overrides the package default logger.
	Logger logger.Logger
}

// Session owns one live connection. A handle to a Session is the sole
// owning reference; there are no process-wide singletons.
type Session struct {
	params *config.ConnParams
	opts   Options
	log    logger.Logger

	mu         sync.Mutex
	state      State
	conn       *transport.Conn
	pending    map[string]*pendingEntry
	cancelled  map[string]struct{}
	lastErr    error
	rpcVersion int

	bus *bus

	sceneState sceneState

	statusMu   sync.Mutex
	statusSubs []chan bool

	runDone chan struct{}
}

// New creates a session for the given connection URL. The URL's path
// segment, when present, is the password; Options.Password takes
// precedence over it.
func New(rawURL string, opts *Options) (*Session, error) {
	params, err := config.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}

	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Password != "" {
		params.Password = o.Password
	}
	if o.Encoding != "" {
		params.Encoding = o.Encoding
	}
	log := o.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	s := &Session{
		params:    params,
		opts:      o,
		log:       log.WithFields(logger.String("component", "session")),
		state:     StateDisconnected,
		pending:   make(map[string]*pendingEntry),
		cancelled: make(map[string]struct{}),
	}
	s.bus = newBus(s.log)
	return s, nil
}

// NewFromConfig creates a session from a loaded configuration.
func NewFromConfig(cfg *config.Config, opts *Options) (*Session, error) {
	var o Options
	if opts != nil {
		o = *opts
	}
	if cfg.Connection != nil {
		if o.Password == "" {
			o.Password = cfg.Connection.Password
		}
		if o.Encoding == "" {
			o.Encoding = cfg.Connection.Encoding
		}
		if o.DialTimeout == 0 {
			o.DialTimeout = cfg.Connection.DialTimeout
		}
		if o.RequestTimeout == 0 {
			o.RequestTimeout = cfg.Connection.RequestTimeout
		}
		return New(cfg.Connection.URL, &o)
	}
	return New("", &o)
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connected reports whether the session is identified.
func (s *Session) Connected() bool {
	return s.State() == StateIdentified
}

// Err returns the terminal error after a disconnect, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Done returns a channel closed when the dispatch loop of the current
// connection exits. Nil before the first successful Connect.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runDone
}

// StatusUpdates returns a channel that receives the connection-status
// signal: true on Identified, false on disconnect. The channel has a
// one-slot buffer; a pending unread value is coalesced.
func (s *Session) StatusUpdates() <-chan bool {
	ch := make(chan bool, 1)
	s.statusMu.Lock()
	s.statusSubs = append(s.statusSubs, ch)
	s.statusMu.Unlock()
	return ch
}

func (s *Session) notifyStatus(connected bool) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	for _, ch := range s.statusSubs {
		select {
		case ch <- connected:
		default:
			// Drop the stale unread value, keep the latest.
			select {
			case <-ch:
			default:
			}
			ch <- connected
		}
	}
}

// Connect dials the server, performs the handshake and starts the
// dispatch loop. On return the session is Identified and, unless
// disabled, the studio-mode and scene-name state has been fetched.
func (s *Session) Connect(ctx context.Context) error {
	if s.params.Encoding == config.EncodingMsgPack {
		return ErrUnsupportedEncoding
	}

	s.mu.Lock()
	if s.state != StateDisconnected {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.state = StateConnecting
	s.lastErr = nil
	s.mu.Unlock()

	conn, err := transport.Dial(ctx, s.params.URL(), &transport.Options{
		DialTimeout:  s.opts.DialTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		Subprotocols: []string{s.params.Encoding},
	})
	if err != nil {
		s.setState(StateDisconnected)
		return err
	}

	s.mu.Lock()
	s.conn = conn
	s.state = StateAwaitingHello
	s.mu.Unlock()

	if err := s.performHandshake(ctx, conn); err != nil {
		conn.Close()
		s.mu.Lock()
		s.state = StateDisconnected
		s.conn = nil
		s.lastErr = err
		s.mu.Unlock()
		metrics.HandshakesCompleted.WithLabelValues("failure").Inc()
		return err
	}

	s.mu.Lock()
	s.state = StateIdentified
	s.runDone = make(chan struct{})
	s.mu.Unlock()

	metrics.HandshakesCompleted.WithLabelValues("identified").Inc()
	metrics.SessionsActive.Inc()
	s.log.Info("session identified",
		logger.String("url", s.params.URL()),
		logger.Int("rpc_version", s.NegotiatedRPCVersion()),
	)

	go s.run(conn)

	s.notifyStatus(true)

	if !s.opts.SkipStateBootstrap {
		if err := s.bootstrapState(ctx); err != nil {
			s.log.Warn("state bootstrap failed", logger.Error(err))
		}
	}
	return nil
}

// NegotiatedRPCVersion returns the server-confirmed RPC version, zero
// before the first successful handshake.
func (s *Session) NegotiatedRPCVersion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rpcVersion
}

// performHandshake reads frames synchronously until the handshake
// engine reports Identified. Any decode failure here is terminal.
func (s *Session) performHandshake(ctx context.Context, conn *transport.Conn) error {
	started := time.Now()
	engine := handshake.New(s.params.Password, s.opts.Subscriptions)

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		payload, err := protocol.Decode(data)
		if err != nil {
			return err
		}
		metrics.MessagesReceived.WithLabelValues(payload.OpCode().String()).Inc()

		reply, done, err := engine.Step(payload)
		if err != nil {
			return err
		}
		if reply != nil {
			frame, err := protocol.Encode(reply)
			if err != nil {
				return err
			}
			if err := conn.WriteMessage(frame); err != nil {
				return err
			}
			s.setState(StateAwaitingIdentified)
		}
		if done {
			s.mu.Lock()
			s.rpcVersion = engine.NegotiatedRPCVersion()
			s.mu.Unlock()
			metrics.HandshakeDuration.Observe(time.Since(started).Seconds())
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// run is the dispatch loop: it drains decoded messages and routes them
// to the correlator or the event bus until the transport fails.
func (s *Session) run(conn *transport.Conn) {
	defer close(s.runDone)

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			s.teardown(err)
			return
		}

		payload, err := protocol.Decode(data)
		if err != nil {
			// Malformed frames are logged and dropped; the session
			// continues unless the server closes.
			s.log.Warn("dropping malformed message", logger.Error(err))
			metrics.MessagesDropped.WithLabelValues("decode_error").Inc()
			continue
		}
		metrics.MessagesReceived.WithLabelValues(payload.OpCode().String()).Inc()

		switch p := payload.(type) {
		case *protocol.Event:
			s.handleEvent(p)
		case *protocol.RequestResponse:
			s.handleResponse(p)
		case *protocol.RequestBatchResponse:
			s.handleBatchResponse(p)
		default:
			s.log.Warn("unexpected payload after handshake",
				logger.String("opcode", payload.OpCode().String()))
			metrics.MessagesDropped.WithLabelValues("unexpected_opcode").Inc()
		}
	}
}

// Close disconnects the session. Every pending request completes with
// ErrDisconnected and every subscription ends before the transport is
// closed.
func (s *Session) Close() error {
	s.teardown(nil)
	return nil
}

// teardown moves the session to Disconnected exactly once per
// connection: pending entries flush, subscriptions close, the status
// signal fires, and the transport is torn down.
func (s *Session) teardown(cause error) {
	s.mu.Lock()
	if s.state == StateDisconnected {
		s.mu.Unlock()
		return
	}
	s.state = StateDisconnected
	conn := s.conn
	s.conn = nil
	if cause != nil {
		s.lastErr = cause
	}
	flushed := s.pending
	s.pending = make(map[string]*pendingEntry)
	s.cancelled = make(map[string]struct{})
	s.mu.Unlock()

	for _, entry := range flushed {
		entry.complete(result{err: ErrDisconnected})
		metrics.RequestsInFlight.Dec()
		metrics.RequestsCompleted.WithLabelValues("disconnected").Inc()
	}

	s.bus.closeAll(ErrDisconnected)

	if conn != nil {
		conn.Close()
		metrics.SessionsActive.Dec()
	}

	if cause != nil {
		s.log.Warn("session disconnected", logger.Error(cause))
	} else {
		s.log.Info("session closed")
	}
	s.notifyStatus(false)
}

// Reidentify transmits a new event-subscription mask. Fire-and-forget:
// the server does not answer it.
func (s *Session) Reidentify(mask *protocol.EventSubscription) error {
	s.mu.Lock()
	conn := s.conn
	identified := s.state == StateIdentified
	s.mu.Unlock()
	if !identified {
		return ErrNotConnected
	}

	frame, err := protocol.Encode(&protocol.Reidentify{EventSubscriptions: mask})
	if err != nil {
		return err
	}
	return conn.WriteMessage(frame)
}

// bootstrapState fetches studio mode and the scene names after
// Identified. The preview fetch runs concurrently with the program
// fetch when studio mode is enabled.
func (s *Session) bootstrapState(ctx context.Context) error {
	studio, err := Call[requests.GetStudioModeEnabledResponse](ctx, s, requests.GetStudioModeEnabled{})
	if err != nil {
		return err
	}
	s.sceneState.setStudioMode(studio.StudioModeEnabled)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		program, err := Call[requests.GetCurrentProgramSceneResponse](gctx, s, requests.GetCurrentProgramScene{})
		if err != nil {
			return err
		}
		s.sceneState.setProgramScene(program.CurrentProgramSceneName)
		return nil
	})

	if studio.StudioModeEnabled {
		g.Go(func() error {
			preview, err := Call[requests.GetCurrentPreviewSceneResponse](gctx, s, requests.GetCurrentPreviewScene{})
			if err != nil {
				return err
			}
			s.sceneState.setPreviewScene(preview.CurrentPreviewSceneName)
			return nil
		})
	}

	return g.Wait()
}
