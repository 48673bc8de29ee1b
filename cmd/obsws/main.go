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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/obsws-project/obsws/config"
	"github.com/obsws-project/obsws/health"
	"github.com/obsws-project/obsws/internal/metrics"
	"github.com/obsws-project/obsws/requests"
	"github.com/obsws-project/obsws/session"
)

var (
	flagURL      string
	flagPassword string
	flagConfig   string
	flagTimeout  time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "obsws",
	Short: "obsws - control an OBS instance over OBS-WebSocket v5",
	Long: `obsws talks to an OBS instance over the OBS-WebSocket v5 protocol.

It covers the day-to-day control surface:
- Scene inspection and switching (program and preview)
- Studio mode toggling
- Record output control
- Live event watching`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Connection parameters come from flags, OBSWS_* variables in the
	// environment or a .env file, or a yaml config file.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "connection URL (ws://host:port[/password])")
	rootCmd.PersistentFlags().StringVar(&flagPassword, "password", "", "connection password")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a yaml config file")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 10*time.Second, "per-command timeout")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig resolves the effective configuration: config file first,
// then environment, then flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if flagConfig != "" {
		loaded, err := config.LoadFromFile(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if env := os.Getenv("OBSWS_URL"); env != "" && flagURL == "" {
		cfg.Connection.URL = env
	}
	if env := os.Getenv("OBSWS_PASSWORD"); env != "" && flagPassword == "" {
		cfg.Connection.Password = env
	}
	if flagURL != "" {
		cfg.Connection.URL = flagURL
	}
	if flagPassword != "" {
		cfg.Connection.Password = flagPassword
	}
	return cfg, nil
}

// withSession connects, runs fn, and tears the session down. When the
// config enables them, the health and metrics HTTP endpoints serve
// for the lifetime of the command.
func withSession(fn func(ctx context.Context, s *session.Session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), flagTimeout)
	defer cancel()

	s, err := session.NewFromConfig(cfg, nil)
	if err != nil {
		return err
	}
	if err := s.Connect(ctx); err != nil {
		return err
	}
	defer s.Close()

	startEndpoints(cfg, s)

	return fn(ctx, s)
}

// startEndpoints serves /healthz and /metrics when enabled. Mostly
// useful under `events watch`, where the process sticks around.
func startEndpoints(cfg *config.Config, s *session.Session) {
	if cfg.Health != nil && cfg.Health.Enabled {
		monitor := health.ForSession(s, func(ctx context.Context) error {
			_, err := session.Call[requests.GetVersionResponse](ctx, s, requests.GetVersion{})
			return err
		}, 0)

		go func() {
			addr := fmt.Sprintf(":%d", cfg.Health.Port)
			if err := monitor.StartServer(addr); err != nil {
				fmt.Fprintf(os.Stderr, "health endpoint: %v\n", err)
			}
		}()
	}

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
			if err := metrics.StartServer(addr); err != nil {
				fmt.Fprintf(os.Stderr, "metrics endpoint: %v\n", err)
			}
		}()
	}
}
