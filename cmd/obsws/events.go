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
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/obsws-project/obsws/events"
	"github.com/obsws-project/obsws/session"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Watch server events",
}

var eventsWatchCmd = &cobra.Command{
	Use:   "watch [type...]",
	Short: "Stream events until interrupted",
	Long: `Stream decoded events to stdout. With no arguments the scene,
studio-mode and record events are watched; otherwise only the named
event types.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		types := args
		if len(types) == 0 {
			types = []string{
				events.TypeCurrentProgramSceneChanged,
				events.TypeCurrentPreviewSceneChanged,
				events.TypeStudioModeStateChanged,
				events.TypeSceneCreated,
				events.TypeSceneRemoved,
				events.TypeRecordStateChanged,
			}
		}

		return withSession(func(ctx context.Context, s *session.Session) error {
			stream, err := s.SubscribeTypes(types...)
			if err != nil {
				return err
			}
			defer stream.Close()

			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			for {
				select {
				case <-sigCtx.Done():
					return nil
				case <-s.Done():
					return s.Err()
				case ev, ok := <-stream.C:
					if !ok {
						return stream.Err()
					}
					fmt.Printf("%s: %+v\n", ev.EventType(), ev)
				}
			}
		})
	},
}

func init() {
	eventsCmd.AddCommand(eventsWatchCmd)
	rootCmd.AddCommand(eventsCmd)
}
