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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/obsws-project/obsws/handshake"
	"github.com/obsws-project/obsws/protocol"
	"github.com/obsws-project/obsws/requests"
)

// mockHandler answers one request type on the mock server.
type mockHandler func(req *protocol.Request) protocol.RequestResponse

// mockServer is an in-process OBS-WebSocket v5 endpoint: it performs
// the server side of the handshake, answers requests through
// registered handlers, executes batches element by element, and lets
// tests push events.
type mockServer struct {
	t   *testing.T
	srv *httptest.Server

	auth     *protocol.Authentication
	password string

	mu       sync.Mutex
	conn     *websocket.Conn
	writeMu  sync.Mutex
	handlers map[string]mockHandler

	studioMode   bool
	programScene string
	previewScene string

	deferred      map[string]bool
	deferredQueue []*protocol.Request

	connected chan struct{}
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()

	s := &mockServer{
		t:            t,
		handlers:     make(map[string]mockHandler),
		programScene: "Scene 1",
		deferred:     make(map[string]bool),
		connected:    make(chan struct{}),
	}
	s.installDefaults()

	upgrader := websocket.Upgrader{Subprotocols: []string{"obswebsocket.json"}}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		s.serve(conn)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *mockServer) url() string {
	return "ws" + strings.TrimPrefix(s.srv.URL, "http")
}

// requireAuth makes the Hello carry an authentication block; Identify
// must answer with the matching chain or the server closes with 4009.
func (s *mockServer) requireAuth(password, salt, challenge string) {
	s.password = password
	s.auth = &protocol.Authentication{Challenge: challenge, Salt: salt}
}

func (s *mockServer) handle(requestType string, h mockHandler) {
	s.mu.Lock()
	s.handlers[requestType] = h
	s.mu.Unlock()
}

func (s *mockServer) setStudioMode(enabled bool, preview string) {
	s.mu.Lock()
	s.studioMode = enabled
	s.previewScene = preview
	s.mu.Unlock()
}

func (s *mockServer) installDefaults() {
	okData := func(v any) protocol.RequestResponse {
		data, _ := json.Marshal(v)
		return protocol.RequestResponse{
			RequestStatus: protocol.RequestStatus{Result: true, Code: protocol.StatusSuccess},
			ResponseData:  data,
		}
	}

	s.handlers[requests.TypeGetVersion] = func(*protocol.Request) protocol.RequestResponse {
		return okData(map[string]any{"obsVersion": "29.1.0", "obsWebSocketVersion": "5.1.0", "rpcVersion": 1})
	}
	s.handlers[requests.TypeGetStudioModeEnabled] = func(*protocol.Request) protocol.RequestResponse {
		s.mu.Lock()
		defer s.mu.Unlock()
		return okData(map[string]any{"studioModeEnabled": s.studioMode})
	}
	s.handlers[requests.TypeGetCurrentProgramScene] = func(*protocol.Request) protocol.RequestResponse {
		s.mu.Lock()
		defer s.mu.Unlock()
		return okData(map[string]any{"currentProgramSceneName": s.programScene})
	}
	s.handlers[requests.TypeGetCurrentPreviewScene] = func(*protocol.Request) protocol.RequestResponse {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.studioMode {
			return protocol.RequestResponse{
				RequestStatus: protocol.RequestStatus{Result: false, Code: protocol.StatusStudioModeNotActive},
			}
		}
		return okData(map[string]any{"currentPreviewSceneName": s.previewScene})
	}
}

func (s *mockServer) write(p protocol.Payload) error {
	frame, err := protocol.Encode(p)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	return conn.WriteMessage(websocket.TextMessage, frame)
}

// pushEvent delivers a server-initiated event to the client.
func (s *mockServer) pushEvent(eventType string, intent protocol.EventSubscription, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.t.Errorf("marshal event data: %v", err)
		return
	}
	if err := s.write(&protocol.Event{EventType: eventType, EventIntent: intent, EventData: raw}); err != nil {
		s.t.Logf("push event: %v", err)
	}
}

// closeWithCode closes the live connection with the given close code.
func (s *mockServer) closeWithCode(code int, text string) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return
	}
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	_ = conn.Close()
}

func (s *mockServer) serve(conn *websocket.Conn) {
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	hello := &protocol.Hello{OBSWebSocketVersion: "5.1.0", RPCVersion: 1, Authentication: s.auth}
	if err := s.write(hello); err != nil {
		return
	}

	// Identify
	_, frame, err := conn.ReadMessage()
	if err != nil {
		return
	}
	payload, err := protocol.Decode(frame)
	if err != nil {
		return
	}
	identify, ok := payload.(*protocol.Identify)
	if !ok {
		s.closeWithCode(int(protocol.CloseNotIdentified), "expected Identify")
		return
	}
	if s.auth != nil {
		want := handshake.AuthResponse(s.password, s.auth.Salt, s.auth.Challenge)
		if identify.Authentication != want {
			s.closeWithCode(int(protocol.CloseAuthenticationFailed), "authentication failed")
			return
		}
	}
	if err := s.write(&protocol.Identified{NegotiatedRPCVersion: 1}); err != nil {
		return
	}
	close(s.connected)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return
		}
		payload, err := protocol.Decode(frame)
		if err != nil {
			continue
		}

		switch p := payload.(type) {
		case *protocol.Request:
			s.mu.Lock()
			hold := s.deferred[p.RequestType]
			if hold {
				s.deferredQueue = append(s.deferredQueue, p)
			}
			s.mu.Unlock()
			if hold {
				continue
			}
			resp := s.dispatch(p)
			resp.RequestType = p.RequestType
			resp.RequestID = p.RequestID
			if err := s.write(&resp); err != nil {
				return
			}
		case *protocol.RequestBatch:
			if err := s.write(s.executeBatch(p)); err != nil {
				return
			}
		case *protocol.Reidentify:
			// Accepted silently, like the real server.
		}
	}
}

// deferType queues requests of the given type instead of answering
// them; flushReversed answers the queue in reverse arrival order.
func (s *mockServer) deferType(requestType string) {
	s.mu.Lock()
	s.deferred[requestType] = true
	s.mu.Unlock()
}

// queuedDeferred reports how many requests are waiting for a flush.
func (s *mockServer) queuedDeferred() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.deferredQueue)
}

func (s *mockServer) flushReversed() {
	s.mu.Lock()
	queue := s.deferredQueue
	s.deferredQueue = nil
	s.mu.Unlock()

	for i := len(queue) - 1; i >= 0; i-- {
		req := queue[i]
		resp := s.dispatch(req)
		resp.RequestType = req.RequestType
		resp.RequestID = req.RequestID
		if err := s.write(&resp); err != nil {
			return
		}
	}
}

func (s *mockServer) dispatch(req *protocol.Request) protocol.RequestResponse {
	s.mu.Lock()
	h, ok := s.handlers[req.RequestType]
	s.mu.Unlock()
	if !ok {
		return protocol.RequestResponse{
			RequestStatus: protocol.RequestStatus{Result: false, Code: protocol.StatusUnknownRequestType},
		}
	}
	return h(req)
}

func (s *mockServer) executeBatch(batch *protocol.RequestBatch) *protocol.RequestBatchResponse {
	out := &protocol.RequestBatchResponse{RequestID: batch.RequestID}
	for _, item := range batch.Requests {
		resp := s.dispatch(&protocol.Request{
			RequestType: item.RequestType,
			RequestID:   item.RequestID,
			RequestData: item.RequestData,
		})
		out.Results = append(out.Results, protocol.BatchResponseItem{
			RequestType:   item.RequestType,
			RequestID:     item.RequestID,
			RequestStatus: resp.RequestStatus,
			ResponseData:  resp.ResponseData,
		})
		if batch.HaltOnFailure && !resp.RequestStatus.OK() {
			break
		}
	}
	return out
}
