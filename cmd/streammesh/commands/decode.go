// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/sharelink"
)

type decodeParams struct {
	cli.JSONOutput
	Check bool `json:"check" flag:"check" desc:"exit 1 unless the link is already in canonical form"`
}

type decodeResult struct {
	State       stateReport `json:"state"`
	Canonical   string      `json:"canonical"`
	IsCanonical bool        `json:"is_canonical"`
}

func decodeCommand(env environment) *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "Show the layout a share link restores",
		Description: `Decode a share link into the tile state it restores.

Malformed or missing parameters never fail: they fall back to the same
defaults the viewer uses, so the output is exactly what a browser
opening the link would show. The canonical form is the link re-encoded
from that state.`,
		Usage: "streammesh decode [flags] URL",
		Examples: []cli.Example{
			{
				Description: "Inspect a link",
				Command:     "streammesh decode 'http://localhost:5173/?layout=2x2&streams=ninja%2Cshroud&count=3'",
			},
			{
				Description: "Fail when a link would be rewritten",
				Command:     "streammesh decode --check \"$LINK\"",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("decode", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("decode takes exactly one URL, got %d arguments", len(args))
			}
			link := args[0]
			state := sharelink.Decode(link)

			report, err := newStateReport(state)
			if err != nil {
				return err
			}
			result := decodeResult{
				State:       report,
				Canonical:   sharelink.EncodeQuery(state),
				IsCanonical: queryOf(link) == sharelink.EncodeQuery(state),
			}
			if done, err := params.EmitJSONTo(env.stdout, result); done {
				if err == nil && params.Check && !result.IsCanonical {
					return &cli.ExitError{Code: 1}
				}
				return err
			}

			writeStateText(env.stdout, state)
			fmt.Fprintf(env.stdout, "Canonical: ?%s\n", result.Canonical)
			if params.Check && !result.IsCanonical {
				fmt.Fprintln(env.stdout, "Link is not canonical.")
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// queryOf returns the query component of a link or bare query string.
func queryOf(link string) string {
	if _, query, found := strings.Cut(link, "?"); found {
		link = query
	}
	query, _, _ := strings.Cut(link, "#")
	return query
}
