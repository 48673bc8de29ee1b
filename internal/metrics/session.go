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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HandshakesCompleted tracks completed handshakes
	HandshakesCompleted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "handshakes",
			Name:      "completed_total",
			Help:      "Total number of handshakes completed",
		},
		[]string{"status"}, // identified, failure
	)

	// HandshakeDuration tracks handshake duration
	HandshakeDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "handshakes",
			Name:      "duration_seconds",
			Help:      "Hello-to-Identified duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
		},
	)

	// SessionsActive tracks currently identified sessions
	SessionsActive = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "active",
			Help:      "Number of currently identified sessions",
		},
	)

	// RequestsInFlight tracks pending correlated requests
	RequestsInFlight = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "in_flight",
			Help:      "Number of requests awaiting a response",
		},
	)

	// RequestsCompleted tracks correlated request outcomes
	RequestsCompleted = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "completed_total",
			Help:      "Total number of requests completed by outcome",
		},
		[]string{"outcome"}, // success, failure, disconnected, cancelled, transport_error
	)

	// RequestDuration tracks request round-trip time by request type
	RequestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "requests",
			Name:      "duration_seconds",
			Help:      "Request round-trip duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to 4s
		},
		[]string{"request_type"},
	)

	// MessagesReceived tracks decoded inbound envelopes by opcode
	MessagesReceived = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "received_total",
			Help:      "Total number of inbound envelopes by opcode",
		},
		[]string{"opcode"},
	)

	// MessagesDropped tracks inbound messages discarded by reason
	MessagesDropped = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "dropped_total",
			Help:      "Total number of inbound messages dropped by reason",
		},
		[]string{"reason"}, // decode_error, unmatched_response, unexpected_opcode
	)

	// EventsDelivered tracks event fan-out deliveries
	EventsDelivered = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "delivered_total",
			Help:      "Total number of events delivered to subscribers",
		},
		[]string{"event_type"},
	)

	// SubscribersDropped tracks subscribers removed for lagging
	SubscribersDropped = promauto.With(Registry).NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "subscribers_dropped_total",
			Help:      "Total number of subscribers dropped for lagging",
		},
	)
)
