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

	"github.com/obsws-project/obsws/pkg/version"
	"github.com/obsws-project/obsws/requests"
	"github.com/obsws-project/obsws/session"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show client and server version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("client: %s\n", version.String())

		return withSession(func(ctx context.Context, s *session.Session) error {
			resp, err := session.Call[requests.GetVersionResponse](ctx, s, requests.GetVersion{})
			if err != nil {
				return err
			}
			fmt.Printf("server: OBS %s, obs-websocket %s, rpc %d\n",
				resp.OBSVersion, resp.OBSWebSocketVersion, resp.RPCVersion)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
