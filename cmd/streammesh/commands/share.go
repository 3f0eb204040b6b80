// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/sharelink"
)

type shareParams struct {
	cli.JSONOutput
	ConfigParams
	SourceParams
	Base string `json:"base" flag:"base" desc:"page URL the link points at (default: base_url from config)"`
}

type shareResult struct {
	URL   string      `json:"url"`
	Query string      `json:"query"`
	State stateReport `json:"state"`
}

func shareCommand(env environment) *cli.Command {
	var params shareParams

	return &cli.Command{
		Name:    "share",
		Summary: "Build a share link for a set of channels",
		Description: `Build a share link that restores a tile layout.

Channels are assigned to tiles in order. The link carries the layout
key, the visible channels, the tile count, and a nine-character chat
mask. Start from an existing link with --url or from a preset file with
--preset; explicit flags and channel arguments override either.`,
		Usage: "streammesh share [flags] [CHANNEL...]",
		Examples: []cli.Example{
			{
				Description: "Two channels in a 2x2 grid with three tiles",
				Command:     "streammesh share --layout 2x2 --count 3 ninja shroud",
			},
			{
				Description: "Hide chat on the second tile",
				Command:     "streammesh share --chat 10 ninja shroud",
			},
			{
				Description: "Share a saved preset",
				Command:     "streammesh share --preset ~/.config/streammesh/finals.jsonc",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("share", &params)
		},
		Run: func(args []string) error {
			cfg, err := params.load()
			if err != nil {
				return err
			}
			state, err := params.state(args)
			if err != nil {
				return err
			}

			base := params.Base
			if base == "" {
				base = cfg.BaseURL
			}
			report, err := newStateReport(state)
			if err != nil {
				return err
			}
			result := shareResult{
				URL:   sharelink.Encode(base, state),
				Query: sharelink.EncodeQuery(state),
				State: report,
			}
			if done, err := params.EmitJSONTo(env.stdout, result); done {
				return err
			}
			fmt.Fprintln(env.stdout, result.URL)
			return nil
		},
	}
}
