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

// Package health reports the liveness of an obsws client for daemons
// embedding it. A Monitor runs named probes against the session: a
// critical probe failing (the session itself) makes the report
// unhealthy, an auxiliary probe failing (an end-to-end server ping)
// only degrades it.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/obsws-project/obsws/internal/logger"
)

// Status is the aggregated health of the client.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// ProbeFunc checks one aspect of the client. A nil error means the
// probe passed.
type ProbeFunc func(ctx context.Context) error

// ProbeResult is one probe's outcome inside a Report.
type ProbeResult struct {
	Name     string        `json:"name"`
	Critical bool          `json:"critical"`
	Healthy  bool          `json:"healthy"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report is one aggregated health snapshot.
type Report struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Probes    map[string]ProbeResult `json:"probes"`
}

type probeEntry struct {
	critical bool
	run      ProbeFunc
}

// Monitor runs the registered probes and caches the resulting report.
type Monitor struct {
	timeout time.Duration
	log     logger.Logger

	mu        sync.Mutex
	probes    map[string]probeEntry
	ttl       time.Duration
	last      *Report
	lastUntil time.Time
}

// NewMonitor creates a monitor. The timeout bounds each probe run.
func NewMonitor(timeout time.Duration) *Monitor {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &Monitor{
		timeout: timeout,
		log:     logger.GetDefaultLogger(),
		probes:  make(map[string]probeEntry),
		ttl:     10 * time.Second,
	}
}

// SetLogger sets the logger for the monitor.
func (m *Monitor) SetLogger(l logger.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log = l
}

// SetCacheTTL sets how long a report is served from cache.
func (m *Monitor) SetCacheTTL(ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ttl = ttl
	m.last = nil
}

// Register adds a probe. Critical probes gate healthy vs unhealthy;
// auxiliary probes only degrade. Registering invalidates the cached
// report.
func (m *Monitor) Register(name string, critical bool, probe ProbeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes[name] = probeEntry{critical: critical, run: probe}
	m.last = nil
	m.log.Info("health probe registered",
		logger.String("name", name), logger.Bool("critical", critical))
}

// Unregister removes a probe and invalidates the cached report.
func (m *Monitor) Unregister(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.probes, name)
	m.last = nil
}

// Report runs every probe concurrently and aggregates the outcome.
// Within the cache TTL the previous report is returned as is.
func (m *Monitor) Report(ctx context.Context) *Report {
	m.mu.Lock()
	if m.last != nil && time.Now().Before(m.lastUntil) {
		last := m.last
		m.mu.Unlock()
		return last
	}
	probes := make(map[string]probeEntry, len(m.probes))
	for name, entry := range m.probes {
		probes[name] = entry
	}
	m.mu.Unlock()

	results := make(map[string]ProbeResult, len(probes))
	var wg sync.WaitGroup
	var resultsMu sync.Mutex

	for name, entry := range probes {
		wg.Add(1)
		go func(name string, entry probeEntry) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			start := time.Now()
			err := entry.run(probeCtx)
			result := ProbeResult{
				Name:     name,
				Critical: entry.critical,
				Healthy:  err == nil,
				Duration: time.Since(start),
			}
			if err != nil {
				result.Error = err.Error()
				m.log.Warn("health probe failed",
					logger.String("name", name),
					logger.Error(err),
					logger.Duration("duration", result.Duration),
				)
			}

			resultsMu.Lock()
			results[name] = result
			resultsMu.Unlock()
		}(name, entry)
	}
	wg.Wait()

	status := StatusHealthy
	for _, result := range results {
		if result.Healthy {
			continue
		}
		if result.Critical {
			status = StatusUnhealthy
			break
		}
		status = StatusDegraded
	}

	report := &Report{
		Status:    status,
		Timestamp: time.Now(),
		Probes:    results,
	}

	m.mu.Lock()
	m.last = report
	m.lastUntil = time.Now().Add(m.ttl)
	m.mu.Unlock()

	return report
}

// Target is the slice of the session the monitor probes.
type Target interface {
	Connected() bool
	Err() error
}

// ForSession builds a monitor for one session: a critical "session"
// probe on the connection state and, when ping is non-nil, an
// auxiliary "server" probe that exercises the server end to end
// (typically a GetVersion round trip).
func ForSession(target Target, ping ProbeFunc, timeout time.Duration) *Monitor {
	m := NewMonitor(timeout)

	m.Register("session", true, func(ctx context.Context) error {
		if target.Connected() {
			return nil
		}
		if err := target.Err(); err != nil {
			return fmt.Errorf("session disconnected: %w", err)
		}
		return fmt.Errorf("session not connected")
	})

	if ping != nil {
		m.Register("server", false, ping)
	}
	return m
}
