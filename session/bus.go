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
	"sync"

	"github.com/obsws-project/obsws/internal/logger"
	"github.com/obsws-project/obsws/internal/metrics"
	"github.com/obsws-project/obsws/protocol"
)

// rawSub is one fan-out target. The channel buffers exactly one
// in-flight event; a subscriber that still has that slot full when the
// next matching event arrives is dropped with ErrSubscriberLagged.
// This is the documented back-pressure policy: the receive loop never
// blocks on a slow subscriber.
type rawSub struct {
	id    uint64
	types map[string]struct{}
	once  bool
	ch    chan *protocol.Event

	mu     sync.Mutex
	closed bool
	err    error
}

func (r *rawSub) matches(eventType string) bool {
	_, ok := r.types[eventType]
	return ok
}

// fail records the terminal error and closes the channel once.
func (r *rawSub) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.err = err
	close(r.ch)
}

// trySend offers ev without blocking. The subscriber mutex keeps the
// send ordered against a concurrent close.
func (r *rawSub) trySend(ev *protocol.Event) (delivered, full bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, false
	}
	select {
	case r.ch <- ev:
		return true, false
	default:
		return false, true
	}
}

func (r *rawSub) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// bus fans incoming events out to subscribers. The subscriber list is
// the only shared structure; mutation is internal to the session.
type bus struct {
	mu     sync.Mutex
	subs   map[uint64]*rawSub
	nextID uint64
	log    logger.Logger
}

func newBus(log logger.Logger) *bus {
	return &bus{
		subs: make(map[uint64]*rawSub),
		log:  log,
	}
}

func (b *bus) subscribe(types []string, once bool) *rawSub {
	set := make(map[string]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &rawSub{
		id:    b.nextID,
		types: set,
		once:  once,
		ch:    make(chan *protocol.Event, 1),
	}
	b.subs[sub.id] = sub
	return sub
}

// detach removes a subscriber; delivery stops before the next publish.
func (b *bus) detach(sub *rawSub) {
	b.mu.Lock()
	delete(b.subs, sub.id)
	b.mu.Unlock()
	sub.fail(nil)
}

// publish delivers ev to every matching subscriber in server-send
// order per subscriber. Lagging subscribers are dropped.
func (b *bus) publish(ev *protocol.Event) {
	b.mu.Lock()
	matched := make([]*rawSub, 0, 4)
	for _, sub := range b.subs {
		if sub.matches(ev.EventType) {
			matched = append(matched, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range matched {
		delivered, full := sub.trySend(ev)
		switch {
		case delivered:
			metrics.EventsDelivered.WithLabelValues(ev.EventType).Inc()
			if sub.once {
				b.mu.Lock()
				delete(b.subs, sub.id)
				b.mu.Unlock()
				// The buffered event stays readable after close.
				sub.fail(nil)
			}
		case full:
			b.mu.Lock()
			delete(b.subs, sub.id)
			b.mu.Unlock()
			sub.fail(ErrSubscriberLagged)
			metrics.SubscribersDropped.Inc()
			b.log.Warn("dropping lagged event subscriber",
				logger.String("event_type", ev.EventType))
		}
	}
}

// closeAll ends every subscription, delivering err through Err().
func (b *bus) closeAll(err error) {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uint64]*rawSub)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.fail(err)
	}
}
