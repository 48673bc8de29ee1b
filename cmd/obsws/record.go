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

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Control the record output",
}

var recordStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the record output state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session.Session) error {
			resp, err := session.Call[requests.GetRecordStatusResponse](ctx, s, requests.GetRecordStatus{})
			if err != nil {
				return err
			}
			if resp.OutputActive {
				fmt.Printf("recording (%s)\n", resp.OutputTimecode)
			} else {
				fmt.Println("not recording")
			}
			return nil
		})
	},
}

var recordStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start recording",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session.Session) error {
			_, err := session.Call[requests.StartRecordResponse](ctx, s, requests.StartRecord{})
			return err
		})
	},
}

var recordStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop recording and print the output path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session.Session) error {
			resp, err := session.Call[requests.StopRecordResponse](ctx, s, requests.StopRecord{})
			if err != nil {
				return err
			}
			fmt.Println(resp.OutputPath)
			return nil
		})
	},
}

func init() {
	recordCmd.AddCommand(recordStatusCmd)
	recordCmd.AddCommand(recordStartCmd)
	recordCmd.AddCommand(recordStopCmd)
	rootCmd.AddCommand(recordCmd)
}
