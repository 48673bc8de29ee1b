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
	"fmt"
	"sync"

	"github.com/obsws-project/obsws/events"
)

// Subscription is a typed event stream for a single event type. C
// never completes until the session ends, the subscriber detaches, or
// an error terminates the stream; Err reports why C closed.
type Subscription[T events.Event] struct {
	C <-chan T

	sub   *Session
	raw   *rawSub
	errMu sync.Mutex
	err   error
}

// Err returns the terminal stream error after C closes: nil on a
// plain detach, ErrDisconnected when the session ended,
// ErrSubscriberLagged when delivery fell behind, or a decode error.
func (s *Subscription[T]) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err != nil {
		return s.err
	}
	return s.raw.Err()
}

// Close detaches the subscriber; delivery stops before the next
// event.
func (s *Subscription[T]) Close() {
	s.sub.bus.detach(s.raw)
}

func (s *Subscription[T]) setErr(err error) {
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()
}

// Subscribe opens an all-of-type stream for T. Only an identified
// session accepts subscribers. A decode failure terminates this
// stream only; other subscribers are unaffected.
func Subscribe[T events.Event](s *Session) (*Subscription[T], error) {
	var zero T
	return subscribeTyped[T](s, zero.EventType(), false)
}

// Once delivers the first event of type T and completes. The wait is
// bounded by ctx.
func Once[T events.Event](ctx context.Context, s *Session) (T, error) {
	var zero T

	sub, err := subscribeTyped[T](s, zero.EventType(), true)
	if err != nil {
		return zero, err
	}
	defer sub.Close()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case ev, ok := <-sub.C:
		if !ok {
			if err := sub.Err(); err != nil {
				return zero, err
			}
			return zero, ErrDisconnected
		}
		return ev, nil
	}
}

func subscribeTyped[T events.Event](s *Session, eventType string, once bool) (*Subscription[T], error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}

	raw := s.bus.subscribe([]string{eventType}, once)
	typed := make(chan T, 1)
	sub := &Subscription[T]{C: typed, sub: s, raw: raw}

	go func() {
		defer close(typed)
		for ev := range raw.ch {
			var out T
			if len(ev.EventData) > 0 {
				if err := json.Unmarshal(ev.EventData, &out); err != nil {
					sub.setErr(fmt.Errorf("session: decode %s event: %w", eventType, err))
					s.bus.detach(raw)
					return
				}
			}
			typed <- out
		}
	}()
	return sub, nil
}

// EventStream is a multi-type subscription. Values are decoded through
// the events registry, so every requested type must be registered.
type EventStream struct {
	C <-chan events.Event

	sub   *Session
	raw   *rawSub
	errMu sync.Mutex
	err   error
}

// Err reports why C closed, nil on a plain detach.
func (s *EventStream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	if s.err != nil {
		return s.err
	}
	return s.raw.Err()
}

// Close detaches the subscriber.
func (s *EventStream) Close() {
	s.sub.bus.detach(s.raw)
}

// SubscribeTypes merges all-of-type streams over a set of
// discriminators. Unknown discriminators are rejected up front with
// events.ErrUnknownEventType.
func (s *Session) SubscribeTypes(types ...string) (*EventStream, error) {
	if !s.Connected() {
		return nil, ErrNotConnected
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("session: no event types given")
	}
	for _, t := range types {
		if !events.Known(t) {
			return nil, fmt.Errorf("%w: %q", events.ErrUnknownEventType, t)
		}
	}

	raw := s.bus.subscribe(types, false)
	ch := make(chan events.Event, 1)
	stream := &EventStream{C: ch, sub: s, raw: raw}

	go func() {
		defer close(ch)
		for ev := range raw.ch {
			decoded, err := events.Decode(ev.EventType, ev.EventData)
			if err != nil {
				stream.errMu.Lock()
				stream.err = err
				stream.errMu.Unlock()
				s.bus.detach(raw)
				return
			}
			ch <- decoded
		}
	}()
	return stream, nil
}
