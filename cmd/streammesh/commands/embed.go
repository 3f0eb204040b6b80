// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/embed"
)

type embedParams struct {
	cli.JSONOutput
	ConfigParams
	Parent  string `json:"parent"  flag:"parent"  desc:"embed parent host (default: parent_host from config, else the base_url host)"`
	Unmuted bool   `json:"unmuted" flag:"unmuted" desc:"start the player with audio"`
}

type embedResult struct {
	Channel string `json:"channel"`
	Player  string `json:"player"`
	Chat    string `json:"chat"`
}

func embedCommand(env environment) *cli.Command {
	var params embedParams

	return &cli.Command{
		Name:    "embed",
		Summary: "Print player and chat embed URLs for channels",
		Usage:   "streammesh embed [flags] CHANNEL...",
		Examples: []cli.Example{
			{
				Description: "Embeds for a site served from example.com",
				Command:     "streammesh embed --parent example.com ninja",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("embed", &params)
		},
		Run: func(args []string) error {
			if len(args) == 0 {
				return cli.Validation("embed needs at least one channel")
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			parent := params.Parent
			if parent == "" {
				parent = parentHost(cfg)
			}

			var results []embedResult
			for _, channel := range args {
				name := strings.TrimSpace(channel)
				if name == "" {
					return cli.Validation("empty channel name")
				}
				results = append(results, embedResult{
					Channel: name,
					Player:  embed.Player(name, parent, !params.Unmuted),
					Chat:    embed.Chat(name, parent),
				})
			}
			if done, err := params.EmitJSONTo(env.stdout, results); done {
				return err
			}
			for _, result := range results {
				fmt.Fprintf(env.stdout, "%s\n  player: %s\n  chat:   %s\n", result.Channel, result.Player, result.Chat)
			}
			return nil
		},
	}
}
