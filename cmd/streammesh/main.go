// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// streammesh arranges live Twitch channels in a grid, encodes the
// arrangement as a share link, and opens the visible channels in a
// multiview window.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/cmd/streammesh/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output (like decode --check)
		// return an ExitError with the desired exit code. Don't print a
		// redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		var toolErr *cli.ToolError
		if errors.As(err, &toolErr) {
			os.Exit(toolErr.Code())
		}
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
