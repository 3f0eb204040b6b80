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
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/streammesh/cmd/streammesh/cli"
	"github.com/bureau-foundation/streammesh/lib/config"
	"github.com/bureau-foundation/streammesh/lib/desktop"
	"github.com/bureau-foundation/streammesh/lib/multiview"
	"github.com/bureau-foundation/streammesh/lib/tiles"
)

// closePollInterval is how often a waiting multiview command checks
// whether the surface went away.
const closePollInterval = 250 * time.Millisecond

type multiviewParams struct {
	cli.JSONOutput
	ConfigParams
	SourceParams
	Audio  string `json:"audio"  flag:"audio"  desc:"audio mode: single (only the focused tile plays) or multi" default:"single"`
	Focus  int    `json:"focus"  flag:"focus"  desc:"initially focused channel, counting from 1" default:"1"`
	Track  bool   `json:"track"  flag:"track"  desc:"end the session when the browser process exits (for browsers launched directly, not xdg-open)"`
	Detach bool   `json:"detach" flag:"detach" desc:"leave the document open and exit once the browser is launched"`
}

type multiviewResult struct {
	multiview.Result
	Audio    string `json:"audio"`
	Document string `json:"document"`
}

func multiviewCommand(env environment) *cli.Command {
	var params multiviewParams

	return &cli.Command{
		Name:    "multiview",
		Summary: "Open the visible channels in one multiview window",
		Description: `Open a multiview window showing every visible channel in one grid.

The window is an HTML document written to multiview.document_dir and
opened with the configured browser. In single audio mode only the
focused channel plays sound. The command waits until interrupted, or
until the browser exits when --track is set, and then removes the
document. With --detach it exits right after the browser is launched.`,
		Usage: "streammesh multiview [flags] [CHANNEL...]",
		Examples: []cli.Example{
			{
				Description: "Watch three channels, all with sound",
				Command:     "streammesh multiview --audio multi ninja shroud pokimane",
			},
			{
				Description: "Open the channels of a share link",
				Command:     "streammesh multiview --url \"$LINK\"",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("multiview", &params)
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
			audio, err := multiview.ParseAudioMode(params.Audio)
			if err != nil {
				return cli.Validation("--audio: %w", err)
			}
			browser, err := cfg.BrowserCommand()
			if err != nil {
				return cli.NotFound("%w", err)
			}

			logger := env.commandLogger(cfg).With("command", "multiview")
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			manager := newManager(cfg, desktop.New(desktop.Config{
				DocumentDir:  cfg.Multiview.DocumentDir,
				Browser:      browser,
				TrackProcess: params.Track,
				Launcher:     env.launcher,
				Logger:       logger,
			}), tiles.NewStore(state), logger)

			if err := manager.SetAudioMode(ctx, audio); err != nil {
				return cli.Internal("setting audio mode: %w", err)
			}
			result, err := manager.Open(ctx, state.Visible(), multiview.OpenOptions{
				ParentHost:    parentHost(cfg),
				PrimaryOrigin: cfg.Origin(),
				StartIndex:    params.Focus - 1,
			})
			if err != nil {
				return openFailure(err)
			}

			report := multiviewResult{
				Result:   result,
				Audio:    audio.String(),
				Document: desktop.DocumentURL(desktop.DocumentPath(cfg.Multiview.DocumentDir, multiview.PopupName)),
			}
			done, err := params.EmitJSONTo(env.stdout, report)
			if err != nil {
				manager.Close()
				return err
			}
			if !done {
				fmt.Fprintf(env.stdout, "Multiview open: %d channels in a %d×%d grid (%s, audio %s)\n",
					result.Channels, result.Grid.Rows, result.Grid.Cols, result.Mode, report.Audio)
				fmt.Fprintf(env.stdout, "Document: %s\n", report.Document)
			}

			if params.Detach {
				return nil
			}
			defer manager.Close()
			waitForClose(ctx, manager, closePollInterval)
			logger.Info("multiview session ended", "state", manager.State())
			return nil
		},
	}
}

// newManager builds a multiview manager from configuration. The store
// answers the surface's sync requests.
func newManager(cfg *config.Config, platform multiview.Platform, store *tiles.Store, logger *slog.Logger) *multiview.Manager {
	return multiview.NewManager(multiview.Config{
		Platform:        platform,
		Logger:          logger,
		SyncFunc:        store.Visible,
		AllowedOrigins:  cfg.Multiview.AllowedOrigins,
		PlatformTimeout: cfg.Multiview.Timeout.Std(),
		FrameRate:       cfg.Multiview.FrameRate,
	})
}

// waitForClose blocks until ctx is done or the session is no longer
// open.
func waitForClose(ctx context.Context, manager *multiview.Manager, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if manager.State() != multiview.StateOpen {
				return
			}
		}
	}
}

// openFailure categorizes an Open error.
func openFailure(err error) error {
	switch {
	case errors.Is(err, multiview.ErrEmptyChannelList):
		return cli.Validation("no channels to show: pass channel names, --url, or --preset")
	case errors.Is(err, multiview.ErrPopupBlocked), errors.Is(err, multiview.ErrPlatformUnsupported):
		return &cli.ToolError{Category: cli.CategoryTransient, Err: fmt.Errorf("opening multiview: %w", err)}
	case errors.Is(err, context.Canceled):
		return &cli.ExitError{Code: 130}
	default:
		return cli.Internal("opening multiview: %w", err)
	}
}
