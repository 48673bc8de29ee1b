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
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/obsws-project/obsws/internal/logger"
	"github.com/obsws-project/obsws/internal/metrics"
	"github.com/obsws-project/obsws/protocol"
	"github.com/obsws-project/obsws/requests"
)

// result completes a pending entry: exactly one of the fields is set.
type result struct {
	resp  *protocol.RequestResponse
	batch *protocol.RequestBatchResponse
	err   error
}

// pendingEntry is one outstanding request or batch, keyed by its wire
// id in the session's pending table.
type pendingEntry struct {
	id          string
	requestType string
	started     time.Time
	ch          chan result
}

func newPendingEntry(id, requestType string) *pendingEntry {
	return &pendingEntry{
		id:          id,
		requestType: requestType,
		started:     time.Now(),
		ch:          make(chan result, 1),
	}
}

// complete delivers at most once; the one-slot buffer makes delivery
// non-blocking for the dispatch loop.
func (p *pendingEntry) complete(r result) {
	select {
	case p.ch <- r:
	default:
	}
}

// register adds a pending entry while the session is identified.
func (s *Session) register(entry *pendingEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdentified {
		return ErrNotConnected
	}
	s.pending[entry.id] = entry
	metrics.RequestsInFlight.Inc()
	return nil
}

// unregister removes a pending entry. When tombstone is set, a later
// response for the id is discarded without the unmatched warning.
func (s *Session) unregister(id string, tombstone bool) {
	s.mu.Lock()
	if _, ok := s.pending[id]; ok {
		delete(s.pending, id)
		metrics.RequestsInFlight.Dec()
		if tombstone {
			s.cancelled[id] = struct{}{}
		}
	}
	s.mu.Unlock()
}

// transmit encodes and writes one payload on the live connection.
func (s *Session) transmit(p protocol.Payload) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	frame, err := protocol.Encode(p)
	if err != nil {
		return err
	}
	return conn.WriteMessage(frame)
}

// requestContext applies the configured request timeout when the
// caller's context has no deadline of its own.
func (s *Session) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || s.opts.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.opts.RequestTimeout)
}

// Send transmits a typed request and blocks for its correlated
// response. The returned response has a success status; failures come
// back as *RequestError. Cancelling ctx abandons the entry and a late
// response for it is discarded silently; a context without a deadline
// falls back to the session's RequestTimeout.
func (s *Session) Send(ctx context.Context, req requests.Request) (*protocol.RequestResponse, error) {
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	entry := newPendingEntry(uuid.NewString(), req.RequestType())
	if err := s.register(entry); err != nil {
		return nil, err
	}

	wire := &protocol.Request{
		RequestType: entry.requestType,
		RequestID:   entry.id,
		RequestData: data,
	}
	if err := s.transmit(wire); err != nil {
		s.unregister(entry.id, false)
		metrics.RequestsCompleted.WithLabelValues("transport_error").Inc()
		return nil, err
	}

	select {
	case <-ctx.Done():
		s.unregister(entry.id, true)
		metrics.RequestsCompleted.WithLabelValues("cancelled").Inc()
		return nil, ctx.Err()
	case r := <-entry.ch:
		metrics.RequestDuration.WithLabelValues(entry.requestType).Observe(time.Since(entry.started).Seconds())
		if r.err != nil {
			metrics.RequestsCompleted.WithLabelValues("disconnected").Inc()
			return nil, r.err
		}
		if !r.resp.RequestStatus.OK() {
			metrics.RequestsCompleted.WithLabelValues("failure").Inc()
			return nil, &RequestError{RequestType: entry.requestType, Status: r.resp.RequestStatus}
		}
		metrics.RequestsCompleted.WithLabelValues("success").Inc()
		return r.resp, nil
	}
}

// handleResponse matches an incoming response against the pending
// table. Responses for ids nobody is waiting on are dropped with a
// warning; responses for cancelled ids are dropped silently.
func (s *Session) handleResponse(resp *protocol.RequestResponse) {
	s.mu.Lock()
	entry, ok := s.pending[resp.RequestID]
	if ok {
		delete(s.pending, resp.RequestID)
	} else if _, cancelled := s.cancelled[resp.RequestID]; cancelled {
		delete(s.cancelled, resp.RequestID)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if !ok {
		s.log.Warn("dropping response with no pending request",
			logger.String("request_id", resp.RequestID),
			logger.String("request_type", resp.RequestType))
		metrics.MessagesDropped.WithLabelValues("unmatched_response").Inc()
		return
	}

	metrics.RequestsInFlight.Dec()
	entry.complete(result{resp: resp})
}

// Call sends a typed request and decodes the response data into Resp.
// Response data that does not match the shape surfaces as a
// *ResponseDecodeError.
func Call[Resp any](ctx context.Context, s *Session, req requests.Request) (*Resp, error) {
	resp, err := s.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	out := new(Resp)
	if len(resp.ResponseData) > 0 {
		if err := json.Unmarshal(resp.ResponseData, out); err != nil {
			return nil, &ResponseDecodeError{RequestType: req.RequestType(), Err: err}
		}
	}
	return out, nil
}
