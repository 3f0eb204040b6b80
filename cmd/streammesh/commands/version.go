// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/version"
)

type versionParams struct {
	cli.JSONOutput
}

func versionCommand(env environment) *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("version", &params)
		},
		Run: func([]string) error {
			if done, err := params.EmitJSONTo(env.stdout, version.Current()); done {
				return err
			}
			fmt.Fprintf(env.stdout, "streammesh %s\n", version.Full())
			return nil
		},
	}
}
