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
	"time"
)

// Config represents the main configuration structure
type Config struct {
	Connection *ConnectionConfig `yaml:"connection" json:"connection"`
	Logging    *LoggingConfig    `yaml:"logging" json:"logging"`
	Metrics    *MetricsConfig    `yaml:"metrics" json:"metrics"`
	Health     *HealthConfig     `yaml:"health" json:"health"`
}

// ConnectionConfig represents OBS-WebSocket connection parameters
type ConnectionConfig struct {
	URL            string        `yaml:"url" json:"url"`
	Password       string        `yaml:"password" json:"password"`
	Encoding       string        `yaml:"encoding" json:"encoding"`
	DialTimeout    time.Duration `yaml:"dial_timeout" json:"dial_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Output string `yaml:"output" json:"output"`
}

// MetricsConfig represents metrics configuration
type MetricsConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Port    int  `yaml:"port" json:"port"`
}

// HealthConfig represents health check configuration
type HealthConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	Port    int  `yaml:"port" json:"port"`
}

// DefaultConfig returns a configuration with defaults applied
func DefaultConfig() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Connection == nil {
		cfg.Connection = &ConnectionConfig{}
	}
	if cfg.Connection.URL == "" {
		cfg.Connection.URL = "ws://localhost:4455"
	}
	if cfg.Connection.Encoding == "" {
		cfg.Connection.Encoding = EncodingJSON
	}
	if cfg.Connection.DialTimeout == 0 {
		cfg.Connection.DialTimeout = 30 * time.Second
	}
	if cfg.Connection.RequestTimeout == 0 {
		cfg.Connection.RequestTimeout = 10 * time.Second
	}
	if cfg.Logging == nil {
		cfg.Logging = &LoggingConfig{Level: "info", Output: "stderr"}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = &MetricsConfig{Port: 9420}
	}
	if cfg.Health == nil {
		cfg.Health = &HealthConfig{Port: 9421}
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Connection == nil {
		return fmt.Errorf("config: missing connection section")
	}
	if _, err := ParseURL(c.Connection.URL); err != nil {
		return fmt.Errorf("config: connection.url: %w", err)
	}
	switch c.Connection.Encoding {
	case EncodingJSON, EncodingMsgPack:
	default:
		return fmt.Errorf("config: connection.encoding: unknown encoding %q", c.Connection.Encoding)
	}
	if c.Metrics != nil && c.Metrics.Enabled && (c.Metrics.Port <= 0 || c.Metrics.Port > 65535) {
		return fmt.Errorf("config: metrics.port: invalid port %d", c.Metrics.Port)
	}
	if c.Health != nil && c.Health.Enabled && (c.Health.Port <= 0 || c.Health.Port > 65535) {
		return fmt.Errorf("config: health.port: invalid port %d", c.Health.Port)
	}
	return nil
}
