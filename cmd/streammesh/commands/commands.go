// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the streammesh command tree.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/config"
	"github.com/bureau-foundation/streammesh/lib/desktop"
)

// environment holds the process-level collaborators commands use, so
// tests can substitute them.
type environment struct {
	stdout   io.Writer
	launcher desktop.Launcher
	logger   func(level slog.Level) *slog.Logger
}

func (env environment) commandLogger(cfg *config.Config) *slog.Logger {
	if env.logger != nil {
		return env.logger(cfg.SlogLevel())
	}
	return cli.NewCommandLogger(cfg.SlogLevel())
}

// Root builds and returns the complete streammesh command tree.
func Root() *cli.Command {
	return newRoot(environment{stdout: os.Stdout})
}

func newRoot(env environment) *cli.Command {
	return &cli.Command{
		Name: "streammesh",
		Description: `StreamMesh: watch several Twitch streams at once.

Arrange channels in a grid, share the arrangement as a link, and open
the visible channels together in one multiview window.`,
		Subcommands: []*cli.Command{
			viewCommand(env),
			shareCommand(env),
			decodeCommand(env),
			layoutsCommand(env),
			embedCommand(env),
			multiviewCommand(env),
			versionCommand(env),
		},
		Examples: []cli.Example{
			{
				Description: "Edit a grid in the terminal",
				Command:     "streammesh view ninja shroud",
			},
			{
				Description: "Print a share link for four channels",
				Command:     "streammesh share --layout 2x2 ninja shroud pokimane xqc",
			},
			{
				Description: "See what a link restores",
				Command:     "streammesh decode 'http://localhost:5173/?layout=3x3&count=5'",
			},
			{
				Description: "Open channels in one multiview window",
				Command:     "streammesh multiview ninja shroud",
			},
		},
	}
}
