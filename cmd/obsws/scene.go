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

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Inspect and switch scenes",
}

var sceneCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current program and preview scene",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session.Session) error {
			fmt.Printf("program: %s\n", s.CurrentProgramSceneName())
			if s.StudioModeEnabled() {
				fmt.Printf("preview: %s\n", s.CurrentPreviewSceneName())
			}
			return nil
		})
	},
}

var sceneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all scenes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session.Session) error {
			resp, err := session.Call[requests.GetSceneListResponse](ctx, s, requests.GetSceneList{})
			if err != nil {
				return err
			}
			for _, scene := range resp.Scenes {
				marker := " "
				if scene.SceneName == resp.CurrentProgramSceneName {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, scene.SceneName)
			}
			return nil
		})
	},
}

var scenePreview bool

var sceneSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Switch the program (or preview) scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(func(ctx context.Context, s *session.Session) error {
			if scenePreview {
				_, err := session.Call[requests.SetCurrentPreviewSceneResponse](ctx, s,
					requests.SetCurrentPreviewScene{SceneName: args[0]})
				return err
			}
			_, err := session.Call[requests.SetCurrentProgramSceneResponse](ctx, s,
				requests.SetCurrentProgramScene{SceneName: args[0]})
			return err
		})
	},
}

func init() {
	sceneSetCmd.Flags().BoolVar(&scenePreview, "preview", false, "switch the preview scene instead of program")

	sceneCmd.AddCommand(sceneCurrentCmd)
	sceneCmd.AddCommand(sceneListCmd)
	sceneCmd.AddCommand(sceneSetCmd)
	rootCmd.AddCommand(sceneCmd)
}
