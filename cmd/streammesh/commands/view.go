// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/config"
	"github.com/bureau-foundation/streammesh/lib/desktop"
	"github.com/bureau-foundation/streammesh/lib/embed"
	"github.com/bureau-foundation/streammesh/lib/multiview"
	"github.com/bureau-foundation/streammesh/lib/sharelink"
	"github.com/bureau-foundation/streammesh/lib/tiles"
	"github.com/bureau-foundation/streammesh/lib/tui"
	"github.com/bureau-foundation/streammesh/lib/viewer"
)

type viewParams struct {
	ConfigParams
	SourceParams
	LogFile string `json:"log_file" flag:"log-file" desc:"write logs to this file (the terminal is taken by the viewer)"`
}

func viewCommand(env environment) *cli.Command {
	var params viewParams

	return &cli.Command{
		Name:    "view",
		Summary: "Edit a stream grid interactively",
		Description: `Open the interactive grid editor.

Each tile holds one channel. Edit tiles, switch layouts, toggle chat,
copy a share link, and open the visible channels in a multiview window.
Press ? inside the viewer for the full list of keys. When the viewer
exits, the share link for the final layout is printed.`,
		Usage: "streammesh view [flags] [CHANNEL...]",
		Examples: []cli.Example{
			{
				Description: "Start empty",
				Command:     "streammesh view",
			},
			{
				Description: "Resume a shared layout",
				Command:     "streammesh view --url \"$LINK\"",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("view", &params)
		},
		Run: func(args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return cli.Validation("view needs a terminal; use 'streammesh share' for scripted output")
			}
			cfg, err := params.load()
			if err != nil {
				return err
			}
			state, err := params.state(args)
			if err != nil {
				return err
			}

			logger := cli.NewDiscardLogger()
			if params.LogFile != "" {
				fileLogger, file, err := cli.NewFileLogger(params.LogFile, cfg.SlogLevel())
				if err != nil {
					return cli.Internal("opening log file: %w", err)
				}
				defer file.Close()
				logger = fileLogger
			}
			logger = logger.With("command", "view")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
			defer stop()

			store := tiles.NewStore(state)
			viewerConfig := newViewerConfig(cfg, store, env.launcher, logger)
			if manager, ok := viewerConfig.Multiview.(*multiview.Manager); ok {
				defer manager.Close()
				mirror := viewer.StartMirror(ctx, store, manager, logger)
				defer mirror.Stop()
			}

			program := tea.NewProgram(viewer.NewModel(viewerConfig), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return cli.Internal("viewer: %w", err)
			}

			fmt.Fprintln(env.stdout, sharelink.Encode(cfg.BaseURL, store.Snapshot()))
			return nil
		},
	}
}

// newViewerConfig wires the viewer to the desktop platform. Without a
// browser the multiview and fullscreen keys report themselves as
// unavailable.
func newViewerConfig(cfg *config.Config, store *tiles.Store, launcher desktop.Launcher, logger *slog.Logger) viewer.Config {
	parent := parentHost(cfg)
	viewerConfig := viewer.Config{
		Store:             store,
		ShareBase:         cfg.BaseURL,
		ParentHost:        parent,
		PrimaryOrigin:     cfg.Origin(),
		Clipboard:         tui.NewTerminalClipboard(os.Stdout),
		CompactBreakpoint: cfg.CompactBreakpoint,
		Profile:           termenv.EnvColorProfile(),
		Logger:            logger,
	}

	browser, err := cfg.BrowserCommand()
	if err != nil {
		logger.Warn("multiview disabled", "error", err)
		return viewerConfig
	}
	platform := desktop.New(desktop.Config{
		DocumentDir: cfg.Multiview.DocumentDir,
		Browser:     browser,
		Launcher:    launcher,
		Logger:      logger,
	})
	viewerConfig.Multiview = newManager(cfg, platform, store, logger)
	viewerConfig.Fullscreen = func(channel string) desktop.FullscreenTarget {
		return platform.Player(embed.Player(channel, parent, false))
	}
	return viewerConfig
}
