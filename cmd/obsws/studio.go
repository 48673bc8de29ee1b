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

	"github.com/spf13/cobra"

	"github.com/obsws-project/obsws/requests"
	"github.com/obsws-project/obsws/session"
)

var studioCmd = &cobra.Command{
	Use:   "studio",
	Short: "Inspect and toggle studio mode",
}

var studioStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the studio mode state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session.Session) error {
			if s.StudioModeEnabled() {
				fmt.Println("studio mode: on")
			} else {
				fmt.Println("studio mode: off")
			}
			return nil
		})
	},
}

func setStudioMode(enabled bool) error {
	return withSession(func(ctx context.Context, s *session.Session) error {
		_, err := session.Call[requests.SetStudioModeEnabledResponse](ctx, s,
			requests.SetStudioModeEnabled{StudioModeEnabled: enabled})
		return err
	})
}

var studioOnCmd = &cobra.Command{
	Use:   "on",
	Short: "Enable studio mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStudioMode(true)
	},
}

var studioOffCmd = &cobra.Command{
	Use:   "off",
	Short: "Disable studio mode",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStudioMode(false)
	},
}

func init() {
	studioCmd.AddCommand(studioStatusCmd)
	studioCmd.AddCommand(studioOnCmd)
	studioCmd.AddCommand(studioOffCmd)
	rootCmd.AddCommand(studioCmd)
}
