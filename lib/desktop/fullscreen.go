// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desktop

import (
	"context"
	"errors"
	"fmt"
)

// ErrFullscreenUnsupported reports that a target cannot go fullscreen.
var ErrFullscreenUnsupported = errors.New("fullscreen unsupported")

// FullscreenTarget is something that can be shown fullscreen: a tile's
// player, a browser tab.
type FullscreenTarget interface {
	RequestFullscreen(ctx context.Context) error
}

// RequestFullscreen asks target to go fullscreen. A nil target and
// ErrFullscreenUnsupported are both silent no-ops; handled reports
// whether anything happened.
func RequestFullscreen(ctx context.Context, target FullscreenTarget) (handled bool, err error) {
	if target == nil {
		return false, nil
	}
	if err := target.RequestFullscreen(ctx); err != nil {
		if errors.Is(err, ErrFullscreenUnsupported) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// PlayerTarget opens a player URL in its own browser window, the
// desktop stand-in for fullscreening a single tile.
type PlayerTarget struct {
	Platform *Platform
	URL      string
}

func (t PlayerTarget) RequestFullscreen(ctx context.Context) error {
	if t.Platform == nil || t.Platform.config.Browser == "" || t.URL == "" {
		return ErrFullscreenUnsupported
	}
	argv := append([]string{t.Platform.config.Browser}, t.Platform.config.BrowserArgs...)
	argv = append(argv, t.URL)
	if _, err := t.Platform.launcher.Launch(ctx, argv); err != nil {
		return fmt.Errorf("opening player: %w", err)
	}
	t.Platform.logger.Info("player opened", "url", t.URL)
	return nil
}

// Player returns a fullscreen target for url on this platform.
func (p *Platform) Player(url string) FullscreenTarget {
	return PlayerTarget{Platform: p, URL: url}
}
