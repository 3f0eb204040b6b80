// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/layout"
)

type layoutsParams struct {
	cli.JSONOutput
	Stacked bool `json:"stacked" flag:"stacked" desc:"list the single-column catalog used on narrow screens"`
}

func layoutsCommand(env environment) *cli.Command {
	var params layoutsParams

	return &cli.Command{
		Name:    "layouts",
		Aliases: []string{"ls"},
		Summary: "List the available layouts",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("layouts", &params)
		},
		Run: func(args []string) error {
			if len(args) != 0 {
				return cli.Validation("layouts takes no arguments")
			}
			catalog := layout.Grid
			if params.Stacked {
				catalog = layout.Stacked
			}
			descriptors := catalog.Descriptors()
			if done, err := params.EmitJSONTo(env.stdout, descriptors); done {
				return err
			}

			writer := tabwriter.NewWriter(env.stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "KEY\tLABEL\tGRID\tTILES\n")
			for _, descriptor := range descriptors {
				marker := ""
				if descriptor.Key == layout.DefaultKey {
					marker = " (default)"
				}
				fmt.Fprintf(writer, "%s%s\t%s\t%d×%d\t%d-%d\n",
					descriptor.Key, marker, descriptor.Label,
					descriptor.Rows, descriptor.Cols,
					descriptor.MinTiles, descriptor.MaxTiles)
			}
			return writer.Flush()
		},
	}
}
