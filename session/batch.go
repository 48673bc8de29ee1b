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
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/obsws-project/obsws/internal/metrics"
	"github.com/obsws-project/obsws/protocol"
	"github.com/obsws-project/obsws/requests"
)

// BatchOptions select the server-side execution policy for a batch.
type BatchOptions struct {
	ExecutionType protocol.BatchExecutionType
	// HaltOnFailure stops server-side execution at the first
	// non-success; the response list is then shorter than the request
	// list, which is legal.
	HaltOnFailure bool
}

// BatchItem is one sub-request. ID is the caller-chosen key for the
// result map; when empty the request-type discriminator keys the
// entry instead, and repeated un-IDed calls of the same type overwrite
// each other. Supply IDs when that matters.
type BatchItem struct {
	ID      string
	Request requests.Request
}

// BatchResult is one per-element outcome. On success Response holds
// the typed response for the sub-request's discriminator; on failure
// Status carries the raw server status and Response stays nil. Err is
// set when the response data did not decode.
type BatchResult struct {
	RequestType string
	Status      protocol.RequestStatus
	Response    any
	Err         error
}

// OK reports whether the element succeeded and decoded.
func (r BatchResult) OK() bool {
	return r.Status.OK() && r.Err == nil
}

// SendBatch submits an ordered request batch and maps the per-element
// responses back to caller IDs. Ordering within the batch follows the
// submitted list; the batch call itself succeeds even when elements
// fail.
func (s *Session) SendBatch(ctx context.Context, items []BatchItem, opts *BatchOptions) (map[string]BatchResult, error) {
	ctx, cancel := s.requestContext(ctx)
	defer cancel()

	var o BatchOptions
	if opts != nil {
		o = *opts
	}

	wire := &protocol.RequestBatch{
		RequestID:     uuid.NewString(),
		HaltOnFailure: o.HaltOnFailure,
		ExecutionType: o.ExecutionType,
		Requests:      make([]protocol.BatchRequestItem, 0, len(items)),
	}
	for _, item := range items {
		data, err := json.Marshal(item.Request)
		if err != nil {
			return nil, fmt.Errorf("session: marshal %s: %w", item.Request.RequestType(), err)
		}
		wire.Requests = append(wire.Requests, protocol.BatchRequestItem{
			RequestType: item.Request.RequestType(),
			RequestID:   item.ID,
			RequestData: data,
		})
	}

	entry := newPendingEntry(wire.RequestID, "RequestBatch")
	if err := s.register(entry); err != nil {
		return nil, err
	}
	if err := s.transmit(wire); err != nil {
		s.unregister(entry.id, false)
		return nil, err
	}

	select {
	case <-ctx.Done():
		s.unregister(entry.id, true)
		return nil, ctx.Err()
	case r := <-entry.ch:
		if r.err != nil {
			return nil, r.err
		}
		return mapBatchResults(r.batch), nil
	}
}

// mapBatchResults keys each ordered result by its wire requestId,
// falling back to the request-type discriminator when the id was
// absent. Later un-IDed entries of the same type overwrite earlier
// ones.
func mapBatchResults(batch *protocol.RequestBatchResponse) map[string]BatchResult {
	out := make(map[string]BatchResult, len(batch.Results))
	for _, el := range batch.Results {
		key := el.RequestID
		if key == "" {
			key = el.RequestType
		}

		res := BatchResult{
			RequestType: el.RequestType,
			Status:      el.RequestStatus,
		}
		if el.RequestStatus.OK() {
			resp, err := requests.NewResponse(el.RequestType)
			if err != nil {
				res.Err = err
			} else if len(el.ResponseData) > 0 {
				if err := json.Unmarshal(el.ResponseData, resp); err != nil {
					res.Err = &ResponseDecodeError{RequestType: el.RequestType, Err: err}
				} else {
					res.Response = resp
				}
			} else {
				res.Response = resp
			}
		}
		out[key] = res
	}
	return out
}

// handleBatchResponse matches an incoming batch response against the
// pending table, mirroring handleResponse.
func (s *Session) handleBatchResponse(batch *protocol.RequestBatchResponse) {
	s.mu.Lock()
	entry, ok := s.pending[batch.RequestID]
	if ok {
		delete(s.pending, batch.RequestID)
	} else if _, cancelled := s.cancelled[batch.RequestID]; cancelled {
		delete(s.cancelled, batch.RequestID)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	if !ok {
		metrics.MessagesDropped.WithLabelValues("unmatched_response").Inc()
		return
	}

	metrics.RequestsInFlight.Dec()
	entry.complete(result{batch: batch})
}

// CallBatch is the homogeneous variant: every value in reqs is the
// same request type and every success decodes into Resp. Failed or
// undecodable elements are reported through the joined error; the
// returned map holds the successes.
func CallBatch[Resp any](ctx context.Context, s *Session, reqs map[string]requests.Request, opts *BatchOptions) (map[string]*Resp, error) {
	items := make([]BatchItem, 0, len(reqs))
	for id, req := range reqs {
		items = append(items, BatchItem{ID: id, Request: req})
	}

	raw, err := s.SendBatch(ctx, items, opts)
	if err != nil {
		return nil, err
	}

	out := make(map[string]*Resp, len(raw))
	var errs []error
	for id, res := range raw {
		if !res.Status.OK() {
			errs = append(errs, fmt.Errorf("%s: %w", id, &RequestError{RequestType: res.RequestType, Status: res.Status}))
			continue
		}
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", id, res.Err))
			continue
		}
		typed, ok := res.Response.(*Resp)
		if !ok {
			// Mixed request types reach here; re-decode through the
			// common shape the caller asked for.
			typed = new(Resp)
			data, merr := json.Marshal(res.Response)
			if merr == nil {
				merr = json.Unmarshal(data, typed)
			}
			if merr != nil {
				errs = append(errs, fmt.Errorf("%s: %w", id, &ResponseDecodeError{RequestType: res.RequestType, Err: merr}))
				continue
			}
		}
		out[id] = typed
	}
	return out, errors.Join(errs...)
}
